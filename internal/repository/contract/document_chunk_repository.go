package contract

import (
	"context"

	"github.com/google/uuid"
)

// ScoredChunk is a chunk hit with its cosine similarity (1.0 = identical).
type ScoredChunk struct {
	ChunkId    uuid.UUID
	Content    string
	ChunkIndex int
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, documentId uuid.UUID, contents []string, embeddings [][]float32) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	// SearchSimilarWithScore runs a cosine-similarity search scoped to the
	// named document, returning hits at or above threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, documentName string, threshold float64) ([]*ScoredChunk, error)
}
