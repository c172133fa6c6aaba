package batch

import "context"

// NoAnswer is the sentinel the model returns for a question the content does
// not support. Sentinel answers are dropped, never stored in the ledger.
const NoAnswer = "N/A"

// CallResult holds one call's answers, aligned positionally to the question
// batch that was sent, plus the call's token usage.
type CallResult struct {
	Answers      []string
	InputTokens  int
	OutputTokens int
}

// TokenLimits are the model's request size ceilings.
type TokenLimits struct {
	Input  int
	Output int
}

// Generator is the external text-generation capability the schedulers are
// given. Generate must return exactly one answer per question, in question
// order, using NoAnswer for questions the content cannot answer.
type Generator interface {
	Generate(ctx context.Context, content string, questions []string) (*CallResult, error)
	CountTokens(ctx context.Context, content string, questions []string) (int, error)
	TokenLimits(ctx context.Context) (TokenLimits, error)
}
