package segment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
)

// SemanticOptions bound the chunks the similarity segmenter produces.
type SemanticOptions struct {
	MinSentences    int
	MaxSentences    int
	ThresholdFactor float64
}

func (o *SemanticOptions) applyDefaults() {
	if o.MinSentences <= 0 {
		o.MinSentences = 5
	}
	if o.MaxSentences <= 0 {
		o.MaxSentences = 20
	}
	if o.ThresholdFactor <= 0 {
		o.ThresholdFactor = 0.6
	}
}

// Semantic splits content at natural boundaries: wherever the embedding
// similarity of two consecutive sentences drops below mean - stddev*factor,
// subject to the min/max sentences-per-chunk bounds.
func Semantic(ctx context.Context, embedder embeddings.Embedder, content string, opts SemanticOptions) ([]string, error) {
	opts.applyDefaults()

	sentences := splitSentences(content)
	if len(sentences) <= opts.MinSentences {
		return []string{strings.Join(sentences, " ")}, nil
	}

	vectors, err := embedder.EmbedDocuments(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences: %w", err)
	}

	similarities := make([]float64, len(vectors)-1)
	for i := 0; i < len(vectors)-1; i++ {
		similarities[i] = cosine(vectors[i], vectors[i+1])
	}

	mean, stddev := meanStddev(similarities)
	threshold := mean - stddev*opts.ThresholdFactor

	boundaries := []int{0}
	chunkStart := 0
	for i, similarity := range similarities {
		switch {
		case similarity < threshold && i+1-chunkStart >= opts.MinSentences:
			boundaries = append(boundaries, i+1)
			chunkStart = i + 1
		case i+1-chunkStart >= opts.MaxSentences:
			boundaries = append(boundaries, i+1)
			chunkStart = i + 1
		}
	}
	if boundaries[len(boundaries)-1] != len(sentences) {
		boundaries = append(boundaries, len(sentences))
	}

	chunks := make([]string, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		chunks = append(chunks, strings.Join(sentences[boundaries[i]:boundaries[i+1]], " "))
	}
	return chunks, nil
}

// splitSentences breaks text after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			next := text[i+1]
			if next == ' ' || next == '\n' || next == '\t' || next == '\r' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func meanStddev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		stddev += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(stddev / float64(len(values)))
	return mean, stddev
}
