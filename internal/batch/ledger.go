package batch

import "sync"

// Ledger accumulates the resolved answers and token usage of one run. It
// only ever grows: recording never overwrites an existing answer.
type Ledger struct {
	mu           sync.Mutex
	answers      map[string]string
	inputTokens  int
	outputTokens int
}

func NewLedger() *Ledger {
	return &Ledger{answers: make(map[string]string)}
}

// Record stores an answer unless the question already has one. First writer
// wins; reports whether the entry was stored.
func (l *Ledger) Record(question, answer string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.answers[question]; ok {
		return false
	}
	l.answers[question] = answer
	return true
}

// AddUsage adds one call's token counts to the run totals.
func (l *Ledger) AddUsage(inputTokens, outputTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputTokens += inputTokens
	l.outputTokens += outputTokens
}

// Merge folds another ledger into this one, keeping first-writer-wins for
// answers and summing token totals.
func (l *Ledger) Merge(other *Ledger) {
	if other == nil {
		return
	}
	other.mu.Lock()
	answers := make(map[string]string, len(other.answers))
	for q, a := range other.answers {
		answers[q] = a
	}
	in, out := other.inputTokens, other.outputTokens
	other.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	for q, a := range answers {
		if _, ok := l.answers[q]; !ok {
			l.answers[q] = a
		}
	}
	l.inputTokens += in
	l.outputTokens += out
}

// Answers returns a copy of the resolved answers.
func (l *Ledger) Answers() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.answers))
	for q, a := range l.answers {
		out[q] = a
	}
	return out
}

// Totals returns the cumulative token counts so far.
func (l *Ledger) Totals() (inputTokens, outputTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inputTokens, l.outputTokens
}

// Len reports how many questions have a stored answer.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.answers)
}
