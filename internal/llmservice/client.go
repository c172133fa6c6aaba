package llmservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"question-batcher/internal/batch"
	"question-batcher/internal/config"
)

// Client answers question batches through an OpenAI-compatible endpoint and
// maps its failures onto the scheduler's taxonomy. Token limits come from
// configuration since the chat API does not expose model metadata.
type Client struct {
	llm    *openai.LLM
	cfg    *config.LLMConfig
	system string
}

func NewClient(cfg *config.LLMConfig, systemPrompt string) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	if systemPrompt == "" {
		systemPrompt = config.DefaultSystemPrompt
	}
	return &Client{llm: llm, cfg: cfg, system: systemPrompt}, nil
}

// Generate sends one (content, questions) call and returns the positionally
// aligned answers with token usage.
func (c *Client) Generate(ctx context.Context, content string, questions []string) (*batch.CallResult, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, c.system),
		llms.TextParts(llms.ChatMessageTypeHuman, buildPrompt(content, questions)),
	}
	opts := []llms.CallOption{llms.WithJSONMode()}
	if c.cfg.MaxOutputTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.cfg.MaxOutputTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from %s", c.cfg.Model)
	}
	choice := resp.Choices[0]
	if err := checkFinish(choice.StopReason); err != nil {
		return nil, err
	}

	answers, err := parseAnswers(choice.Content)
	if err != nil {
		return nil, err
	}

	inputTokens, outputTokens := tokenUsage(choice.GenerationInfo)
	return &batch.CallResult{
		Answers:      answers,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}, nil
}

// CountTokens measures the prospective size of a call without making it.
func (c *Client) CountTokens(_ context.Context, content string, questions []string) (int, error) {
	text := c.system + "\n" + buildPrompt(content, questions)
	return llms.CountTokens(c.cfg.Model, text), nil
}

func (c *Client) TokenLimits(context.Context) (batch.TokenLimits, error) {
	if c.cfg.InputTokenLimit <= 0 || c.cfg.OutputTokenLimit <= 0 {
		return batch.TokenLimits{}, fmt.Errorf("token limits for %s not configured", c.cfg.Model)
	}
	return batch.TokenLimits{
		Input:  c.cfg.InputTokenLimit,
		Output: c.cfg.OutputTokenLimit,
	}, nil
}

// buildPrompt lays the query out the way the system prompt expects: the
// content block followed by the question list.
func buildPrompt(content string, questions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Content:\n%s\n\nThere are %d questions. The questions are:\n", content, len(questions))
	for _, q := range questions {
		b.WriteString("\t- " + q + "\n")
	}
	return b.String()
}

// parseAnswers decodes the model's JSON answer array, tolerating a fenced
// code block around it.
func parseAnswers(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	var answers []string
	if err := json.Unmarshal([]byte(trimmed), &answers); err != nil {
		return nil, fmt.Errorf("decoding answer array: %w", err)
	}
	return answers, nil
}

func tokenUsage(info map[string]any) (inputTokens, outputTokens int) {
	if n, ok := info["PromptTokens"].(int); ok {
		inputTokens = n
	}
	if n, ok := info["CompletionTokens"].(int); ok {
		outputTokens = n
	}
	return inputTokens, outputTokens
}
