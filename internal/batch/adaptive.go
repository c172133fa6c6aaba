package batch

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// DefaultMinFragment is the smallest content fragment the splitter will
// still try to send, in characters.
const DefaultMinFragment = 1

// workItem is one outstanding obligation: ask a batch of the requested size
// against a content fragment.
type workItem struct {
	content   string
	batchSize int
}

// Adaptive answers all questions against a single body of content with no
// pre-chunking. It keeps a FIFO queue of (fragment, batch size) obligations
// and reacts to the model's limits: a fragment over the input token limit is
// halved by length, a batch over the output token limit is halved by count.
// Questions from an aborted call go back to the front of the pool; questions
// from a completed call are never asked again.
type Adaptive struct {
	exec        *Executor
	gen         Generator
	minFragment int
}

func NewAdaptive(exec *Executor, gen Generator, minFragment int) *Adaptive {
	if minFragment <= 0 {
		minFragment = DefaultMinFragment
	}
	return &Adaptive{exec: exec, gen: gen, minFragment: minFragment}
}

// Run drains the work queue and returns the populated ledger.
func (a *Adaptive) Run(ctx context.Context, content string, questions []string) (*Ledger, error) {
	limits, err := a.gen.TokenLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("token limits: %w", err)
	}

	ledger := NewLedger()
	queue := newQuestionQueue(questions)
	items := []workItem{{content: content, batchSize: len(questions)}}

	for len(items) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := items[0]
		items = items[1:]

		popped := queue.nextBatch(item.batchSize)

		tokens, err := a.gen.CountTokens(ctx, item.content, popped)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		if tokens > limits.Input {
			if len(item.content) <= a.minFragment {
				return nil, fmt.Errorf("fragment of %d chars exceeds input limit %d: %w",
					len(item.content), limits.Input, ErrFragmentTooSmall)
			}
			first, second := splitContent(item.content)
			items = append(items,
				workItem{content: first, batchSize: item.batchSize},
				workItem{content: second, batchSize: item.batchSize})
			queue.pushFront(popped)
			log.Debug().
				Int("tokens", tokens).
				Int("limit", limits.Input).
				Int("fragment", len(item.content)).
				Msg("input over limit, splitting content")
			continue
		}

		res, err := a.exec.Execute(ctx, item.content, popped)
		if errors.Is(err, ErrOutputLimit) {
			if item.batchSize <= 1 {
				return nil, fmt.Errorf("single-question batch exceeds output limit %d: %w",
					limits.Output, err)
			}
			half := (item.batchSize + 1) / 2
			items = append(items,
				workItem{content: item.content, batchSize: half},
				workItem{content: item.content, batchSize: half})
			queue.pushFront(popped)
			log.Debug().
				Int("batch", item.batchSize).
				Int("half", half).
				Msg("output over limit, splitting batch")
			continue
		}
		if err != nil {
			return nil, err
		}

		ledger.AddUsage(res.InputTokens, res.OutputTokens)
		for j, question := range popped {
			if res.Answers[j] != NoAnswer {
				ledger.Record(question, res.Answers[j])
			}
			queue.retire(question)
		}
		log.Debug().
			Int("asked", len(popped)).
			Int("answered", ledger.Len()).
			Int("pending", queue.pending()).
			Int("queued", len(items)).
			Msg("fragment complete")
	}
	return ledger, nil
}

// splitContent halves a fragment by length, biasing the extra character to
// the first half on odd lengths. The cut moves to the rune boundary nearest
// the midpoint (ties go to the first half) so neither half carries a torn
// multi-byte character.
func splitContent(s string) (string, string) {
	mid := (len(s) + 1) / 2
	back, fwd := mid, mid
	for back > 0 && !utf8.RuneStart(s[back]) {
		back--
	}
	for fwd < len(s) && !utf8.RuneStart(s[fwd]) {
		fwd++
	}
	switch {
	case back == 0 && fwd == len(s):
		// single oversized rune, a clean cut does not exist
	case fwd == len(s) || (back > 0 && mid-back < fwd-mid):
		mid = back
	default:
		mid = fwd
	}
	return s[:mid], s[mid:]
}
