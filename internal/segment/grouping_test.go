package segment

import (
	"context"
	"reflect"
	"testing"
)

func TestGroupByChunkAssignsQuestionsToNearestChunk(t *testing.T) {
	chunks := []string{
		"All about cats and their habits.",
		"Rocket engines and launch windows.",
	}
	questions := []string{
		"Why do cats purr?",
		"How do rockets reach orbit?",
		"What do cats eat?",
	}

	batches, err := GroupByChunk(context.Background(), fakeEmbedder{}, chunks, questions)
	if err != nil {
		t.Fatalf("group by chunk: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if !reflect.DeepEqual(batches[0], []string{"Why do cats purr?", "What do cats eat?"}) {
		t.Fatalf("cat batch = %v", batches[0])
	}
	if !reflect.DeepEqual(batches[1], []string{"How do rockets reach orbit?"}) {
		t.Fatalf("rocket batch = %v", batches[1])
	}
}

func TestGroupByChunkEmptyInputs(t *testing.T) {
	batches, err := GroupByChunk(context.Background(), fakeEmbedder{}, nil, []string{"Q1"})
	if err != nil {
		t.Fatalf("group by chunk: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("batches = %v, want none", batches)
	}

	batches, err = GroupByChunk(context.Background(), fakeEmbedder{},
		[]string{"chunk"}, nil)
	if err != nil {
		t.Fatalf("group by chunk: %v", err)
	}
	if len(batches) != 1 || len(batches[0]) != 0 {
		t.Fatalf("batches = %v, want one empty batch", batches)
	}
}
