package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxAttempts caps retries of a single call.
	DefaultMaxAttempts = 5
	// DefaultTransientDelay is the wait before retrying an unclassified
	// failure.
	DefaultTransientDelay = 20 * time.Second
)

// Executor wraps single service calls with the retry protocol. Rate limits
// wait out the server-advised delay, unclassified failures wait a fixed
// delay, output-limit and abnormal-finish failures are returned immediately.
type Executor struct {
	gen            Generator
	maxAttempts    int
	transientDelay time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewExecutor(gen Generator, maxAttempts int, transientDelay time.Duration) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if transientDelay <= 0 {
		transientDelay = DefaultTransientDelay
	}
	return &Executor{
		gen:            gen,
		maxAttempts:    maxAttempts,
		transientDelay: transientDelay,
		sleep:          sleepContext,
	}
}

// Execute performs one logical call, retrying retryable failures up to the
// attempt cap. A successful result always has one answer per question.
func (e *Executor) Execute(ctx context.Context, content string, questions []string) (*CallResult, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		res, err := e.gen.Generate(ctx, content, questions)
		if err == nil {
			if len(res.Answers) != len(questions) {
				lastErr = fmt.Errorf("%d answers for %d questions", len(res.Answers), len(questions))
				log.Warn().Int("attempt", attempt).Err(lastErr).Msg("misaligned response")
				if err := e.wait(ctx, attempt, e.transientDelay); err != nil {
					return nil, err
				}
				continue
			}
			return res, nil
		}

		if errors.Is(err, ErrOutputLimit) {
			return nil, err
		}
		var finish *FinishError
		if errors.As(err, &finish) {
			return nil, err
		}

		lastErr = err
		delay := e.transientDelay
		var limited *RateLimitError
		if errors.As(err, &limited) {
			delay = limited.Delay
			log.Warn().Int("attempt", attempt).Dur("delay", delay).Msg("rate limited")
		} else {
			log.Warn().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("transient call failure")
		}
		if err := e.wait(ctx, attempt, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("call failed after %d attempts: %w", e.maxAttempts, lastErr)
}

// wait sleeps before the next attempt; the final attempt never sleeps.
func (e *Executor) wait(ctx context.Context, attempt int, d time.Duration) error {
	if attempt >= e.maxAttempts {
		return nil
	}
	return e.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
