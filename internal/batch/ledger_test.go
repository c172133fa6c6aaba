package batch

import (
	"reflect"
	"testing"
)

func TestLedgerFirstWriterWins(t *testing.T) {
	l := NewLedger()

	if !l.Record("q1", "first") {
		t.Fatal("first record rejected")
	}
	if l.Record("q1", "second") {
		t.Fatal("second record accepted")
	}
	if got := l.Answers()["q1"]; got != "first" {
		t.Fatalf("answer = %q, want %q", got, "first")
	}
	if got := l.Len(); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}

func TestLedgerUsageAccumulates(t *testing.T) {
	l := NewLedger()
	l.AddUsage(100, 20)
	l.AddUsage(50, 10)

	in, out := l.Totals()
	if in != 150 || out != 30 {
		t.Fatalf("totals = (%d, %d), want (150, 30)", in, out)
	}
}

func TestLedgerMerge(t *testing.T) {
	a := NewLedger()
	a.Record("q1", "from a")
	a.AddUsage(10, 1)

	b := NewLedger()
	b.Record("q1", "from b")
	b.Record("q2", "only b")
	b.AddUsage(20, 2)

	a.Merge(b)
	a.Merge(nil)

	want := map[string]string{"q1": "from a", "q2": "only b"}
	if got := a.Answers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("answers = %v, want %v", got, want)
	}
	in, out := a.Totals()
	if in != 30 || out != 3 {
		t.Fatalf("totals = (%d, %d), want (30, 3)", in, out)
	}
}

func TestLedgerAnswersReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Record("q1", "a1")

	snapshot := l.Answers()
	snapshot["q1"] = "mutated"
	snapshot["q2"] = "injected"

	if got := l.Answers()["q1"]; got != "a1" {
		t.Fatalf("answer = %q, want %q", got, "a1")
	}
	if got := l.Len(); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}
