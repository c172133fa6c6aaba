package llmservice

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"question-batcher/internal/batch"
)

const (
	// retryMargin is added on top of any server-advised wait.
	retryMargin = 5 * time.Second
	// defaultRetryDelay is used when no advised wait can be parsed.
	defaultRetryDelay = 30 * time.Second
)

var delayPatterns = []*regexp.Regexp{
	// google.rpc.RetryInfo style: "retryDelay": "12s" or "0.847s"
	regexp.MustCompile(`"retryDelay"\s*:\s*"(\d+(?:\.\d+)?)s?"`),
	regexp.MustCompile(`(?i)retry[- ]after[: ]+(\d+(?:\.\d+)?)`),
}

// ParseRetryDelay pulls the server-advised wait out of a rate-limit error
// body and adds the safety margin. Best effort: anything unparseable falls
// back to the default delay.
func ParseRetryDelay(detail string) time.Duration {
	for _, pattern := range delayPatterns {
		m := pattern.FindStringSubmatch(detail)
		if m == nil {
			continue
		}
		d, err := time.ParseDuration(m[1] + "s")
		if err != nil {
			continue
		}
		return d + retryMargin
	}
	return defaultRetryDelay
}

// classify maps a transport error onto the scheduler's failure taxonomy.
// Anything unrecognised stays as-is and is treated as transient upstream.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit") {
		return &batch.RateLimitError{Delay: ParseRetryDelay(msg), Err: err}
	}
	return err
}

// checkFinish maps the finish reason of a completed response. Hitting the
// output ceiling is a split signal; any other abnormal stop is fatal.
func checkFinish(stop string) error {
	switch strings.ToLower(stop) {
	case "", "stop", "end_turn":
		return nil
	case "length", "max_tokens":
		return fmt.Errorf("generation stopped at %q: %w", stop, batch.ErrOutputLimit)
	default:
		return &batch.FinishError{Reason: stop}
	}
}
