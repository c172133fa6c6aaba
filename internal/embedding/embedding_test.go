package embedding

import (
	"testing"

	"question-batcher/internal/config"
)

func TestNewEmbedderSelectsProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{"default is ollama", ""},
		{"explicit ollama", "ollama"},
		{"openai compatible", "openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := NewEmbedder(&config.LLMConfig{
				Provider: tt.provider,
				BaseURL:  "http://localhost:11434",
				Key:      "test-key",
				Model:    "nomic-embed-text",
			})
			if err != nil {
				t.Fatalf("new embedder: %v", err)
			}
			if embedder == nil {
				t.Fatal("nil embedder")
			}
		})
	}
}

func TestNewEmbedderRejectsUnknownProvider(t *testing.T) {
	_, err := NewEmbedder(&config.LLMConfig{Provider: "bedrock"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
