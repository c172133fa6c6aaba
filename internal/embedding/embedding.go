package embedding

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"question-batcher/internal/config"
)

// NewEmbedder builds the embedder the config's provider names. An unset
// provider means a local ollama server.
func NewEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch llmConfig.Provider {
	case "", "ollama":
		return NewOllamaEmbedder(llmConfig)
	case "openai":
		return NewOpenAIEmbedder(llmConfig)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", llmConfig.Provider)
	}
}

// NewOpenAIEmbedder builds an embedder against an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().
		Str("base_url", llmConfig.BaseURL).
		Str("embedding_model", llmConfig.Model).
		Msg("Initializing embedder")

	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

// NewOllamaEmbedder builds an embedder against a local ollama server.
func NewOllamaEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().
		Str("base_url", llmConfig.BaseURL).
		Str("embedding_model", llmConfig.Model).
		Msg("Initializing embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(llmConfig.BaseURL),
		ollama.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}
