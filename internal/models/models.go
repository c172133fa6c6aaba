package models

// Chunk is one parsed piece of a source document.
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
}
