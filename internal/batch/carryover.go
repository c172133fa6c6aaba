package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Carryover asks fixed-size batches of questions against each content unit
// in order. Answered questions are retired; questions the model answered
// with the NoAnswer sentinel roll forward and get one more try against each
// later unit, at most once per unit.
type Carryover struct {
	exec      *Executor
	batchSize int
}

func NewCarryover(exec *Executor, batchSize int) (*Carryover, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &Carryover{exec: exec, batchSize: batchSize}, nil
}

// Run processes the pre-segmented units in order and returns the populated
// ledger. Questions nothing answered are simply absent from the ledger.
func (c *Carryover) Run(ctx context.Context, units []string, questions []string) (*Ledger, error) {
	ledger := NewLedger()
	queue := newQuestionQueue(questions)

	for i, unit := range units {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			popped := queue.nextBatch(c.batchSize)
			if len(popped) == 0 {
				// Unit done; the queue refreshed itself from the
				// outstanding pool for the next unit.
				break
			}

			res, err := c.exec.Execute(ctx, unit, popped)
			if err != nil {
				return nil, fmt.Errorf("unit %d/%d: %w", i+1, len(units), err)
			}

			ledger.AddUsage(res.InputTokens, res.OutputTokens)
			for j, question := range popped {
				if res.Answers[j] != NoAnswer {
					ledger.Record(question, res.Answers[j])
					queue.retire(question)
				}
			}
			log.Debug().
				Int("unit", i+1).
				Int("asked", len(popped)).
				Int("answered", ledger.Len()).
				Int("pending", queue.pending()).
				Msg("batch complete")
		}
	}
	return ledger, nil
}
