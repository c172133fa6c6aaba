package batch

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutputLimit reports that generation stopped at the model's output token
// ceiling. The executor never retries it; the adaptive splitter reacts by
// halving the batch size.
var ErrOutputLimit = errors.New("output token limit exceeded")

// ErrFragmentTooSmall reports a content fragment that still exceeds the input
// token limit but cannot be split any further.
var ErrFragmentTooSmall = errors.New("content fragment below minimum size")

// RateLimitError reports a rate-limited call. Delay is how long the service
// asked us to wait, safety margin included.
type RateLimitError struct {
	Delay time.Duration
	Err   error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s: %v", e.Delay, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// FinishError reports generation that ended abnormally for a reason other
// than the output limit, such as a safety filter. Never retried.
type FinishError struct {
	Reason string
}

func (e *FinishError) Error() string {
	return fmt.Sprintf("generation finished abnormally: %s", e.Reason)
}
