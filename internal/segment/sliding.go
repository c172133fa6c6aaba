package segment

import "fmt"

// SlidingWindow splits content into chunks of at most chunkSize characters,
// each starting overlap characters before the previous one ended. Every
// chunk is full length except possibly the last.
func SlidingWindow(content string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("window overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	if content == "" {
		return nil, nil
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(content); start += step {
		end := start + chunkSize
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks, nil
}
