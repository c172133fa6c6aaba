package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FromFile parses a local document and joins its pages into one text body.
func FromFile(path string) (string, error) {
	chunks, err := ParseDocument(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(chunk.Content)
	}
	return b.String(), nil
}

// FromURL fetches a text document over HTTP. Connection failures are retried
// a few times; HTTP error statuses are not.
func FromURL(ctx context.Context, url string) (string, error) {
	const maxRetries = 3
	client := &http.Client{Timeout: 10 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("Fetch failed")
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("request failed: %d, %s", resp.StatusCode, string(body))
		}
		if err != nil {
			lastErr = err
			continue
		}
		return string(body), nil
	}
	return "", fmt.Errorf("fetching %s: %w", url, lastErr)
}
