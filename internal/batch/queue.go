package batch

import "sync"

// questionQueue rotates questions across content units. current holds the
// candidates for the unit in progress and next holds every question not yet
// attempted in this run. A drained current refreshes itself from next and
// reports an empty batch, which is how callers notice a unit is done.
type questionQueue struct {
	mu      sync.Mutex
	current []string
	next    []string
}

func newQuestionQueue(questions []string) *questionQueue {
	q := &questionQueue{
		current: make([]string, len(questions)),
		next:    make([]string, len(questions)),
	}
	copy(q.current, questions)
	copy(q.next, questions)
	return q
}

// nextBatch pops up to n questions from the front of the queue. An empty
// batch means current was drained; it has been refreshed from next for the
// following draw.
func (q *questionQueue) nextBatch(n int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.current) == 0 {
		q.current = append([]string(nil), q.next...)
		return nil
	}
	if n > len(q.current) {
		n = len(q.current)
	}
	if n <= 0 {
		return nil
	}
	popped := append([]string(nil), q.current[:n]...)
	q.current = q.current[n:]
	return popped
}

// pushFront returns questions that were never attempted to the head of the
// queue so a smaller follow-up call picks them up first.
func (q *questionQueue) pushFront(questions []string) {
	if len(questions) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = append(append([]string(nil), questions...), q.current...)
}

// retire removes a question from all future draws.
func (q *questionQueue) retire(question string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, v := range q.next {
		if v == question {
			q.next = append(q.next[:i], q.next[i+1:]...)
			return
		}
	}
}

// pending reports how many questions are still outstanding.
func (q *questionQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.next)
}
