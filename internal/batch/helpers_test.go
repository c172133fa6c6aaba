package batch

import (
	"context"
	"sync"
	"time"
)

// fakeService scripts the injected generation capability for tests.
type fakeService struct {
	mu       sync.Mutex
	limits   TokenLimits
	countFn  func(content string, questions []string) int
	generate func(call int, content string, questions []string) (*CallResult, error)
	calls    []serviceCall
}

type serviceCall struct {
	content   string
	questions []string
}

func (f *fakeService) Generate(_ context.Context, content string, questions []string) (*CallResult, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, serviceCall{
		content:   content,
		questions: append([]string(nil), questions...),
	})
	f.mu.Unlock()

	if f.generate != nil {
		return f.generate(n, content, questions)
	}
	return answersFrom(nil, questions), nil
}

func (f *fakeService) CountTokens(_ context.Context, content string, questions []string) (int, error) {
	if f.countFn != nil {
		return f.countFn(content, questions), nil
	}
	return 1, nil
}

func (f *fakeService) TokenLimits(context.Context) (TokenLimits, error) {
	limits := f.limits
	if limits.Input == 0 {
		limits.Input = 1 << 20
	}
	if limits.Output == 0 {
		limits.Output = 1 << 20
	}
	return limits, nil
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// answersFrom builds a positionally aligned result: questions found in known
// get their answer, everything else gets the NoAnswer sentinel.
func answersFrom(known map[string]string, questions []string) *CallResult {
	res := &CallResult{InputTokens: 10, OutputTokens: 5}
	for _, q := range questions {
		answer, ok := known[q]
		if !ok {
			answer = NoAnswer
		}
		res.Answers = append(res.Answers, answer)
	}
	return res
}

// recordSleeps swaps the executor's backoff sleep for one that only records
// the requested delays.
func recordSleeps(e *Executor) *[]time.Duration {
	delays := &[]time.Duration{}
	e.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return delays
}
