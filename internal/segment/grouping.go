package segment

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

// GroupByChunk assigns each question to its most similar content chunk,
// returning one batch of questions per chunk, aligned by index. Batches may
// be empty when no question gravitates to a chunk.
func GroupByChunk(ctx context.Context, embedder embeddings.Embedder, chunks, questions []string) ([][]string, error) {
	batches := make([][]string, len(chunks))
	if len(chunks) == 0 || len(questions) == 0 {
		return batches, nil
	}

	db := chromem.NewDB()
	embedOne := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	})
	collection, err := db.CreateCollection("chunks", nil, embedOne)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      strconv.Itoa(i),
			Content: chunk,
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add chunks: %v", err)
	}

	for _, question := range questions {
		results, err := collection.Query(ctx, question, 1, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to query chunk affinity: %v", err)
		}
		if len(results) == 0 {
			continue
		}
		idx, err := strconv.Atoi(results[0].ID)
		if err != nil || idx < 0 || idx >= len(batches) {
			continue
		}
		batches[idx] = append(batches[idx], question)
	}
	return batches, nil
}
