package segment

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"
)

// fakeEmbedder maps text onto one of two orthogonal unit vectors by topic.
type fakeEmbedder struct{}

func (fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = topicVector(text)
	}
	return vectors, nil
}

func (fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return topicVector(text), nil
}

func topicVector(text string) []float32 {
	if strings.Contains(text, "cat") || strings.Contains(text, "Cat") {
		return []float32{1, 0}
	}
	return []float32{0, 1}
}

func TestSemanticSplitsAtTopicShift(t *testing.T) {
	content := "Cats purr. Cats nap. Cats pounce. Cats groom. " +
		"Rockets fly. Rockets roar. Rockets launch. Rockets land."

	chunks, err := Semantic(context.Background(), fakeEmbedder{}, content, SemanticOptions{
		MinSentences:    2,
		ThresholdFactor: 0.6,
	})
	if err != nil {
		t.Fatalf("semantic: %v", err)
	}

	want := []string{
		"Cats purr. Cats nap. Cats pounce. Cats groom.",
		"Rockets fly. Rockets roar. Rockets launch. Rockets land.",
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
}

func TestSemanticShortContentStaysWhole(t *testing.T) {
	chunks, err := Semantic(context.Background(), fakeEmbedder{}, "One topic. Same topic.", SemanticOptions{
		MinSentences: 2,
	})
	if err != nil {
		t.Fatalf("semantic: %v", err)
	}
	if !reflect.DeepEqual(chunks, []string{"One topic. Same topic."}) {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSemanticMaxSentencesForcesBoundary(t *testing.T) {
	// one homogeneous topic: only the sentence cap can split it
	content := "Cats one. Cats two. Cats three. Cats four. Cats five. Cats six. Cats seven."

	chunks, err := Semantic(context.Background(), fakeEmbedder{}, content, SemanticOptions{
		MinSentences: 1,
		MaxSentences: 3,
	})
	if err != nil {
		t.Fatalf("semantic: %v", err)
	}
	want := []string{
		"Cats one. Cats two. Cats three.",
		"Cats four. Cats five. Cats six.",
		"Cats seven.",
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sentences = %v, want %v", got, want)
	}
}

func TestSplitSentencesIgnoresMidwordPunctuation(t *testing.T) {
	got := splitSentences("Version 2.5 shipped. Done.")
	want := []string{"Version 2.5 shipped.", "Done."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sentences = %v, want %v", got, want)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal = %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical = %v", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("zero vector = %v", got)
	}
}

func TestMeanStddev(t *testing.T) {
	mean, stddev := meanStddev([]float64{1, 1, 1, 1})
	if mean != 1 || stddev != 0 {
		t.Fatalf("uniform = (%v, %v)", mean, stddev)
	}
	mean, stddev = meanStddev(nil)
	if mean != 0 || stddev != 0 {
		t.Fatalf("empty = (%v, %v)", mean, stddev)
	}
	mean, stddev = meanStddev([]float64{2, 4})
	if mean != 3 || stddev != 1 {
		t.Fatalf("pair = (%v, %v)", mean, stddev)
	}
}
