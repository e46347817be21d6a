package implementation

import (
	"context"
	"fmt"

	"ai-examcoach-be/internal/model"
	"ai-examcoach-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{db: db}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, documentId uuid.UUID, contents []string, embeddings [][]float32) error {
	if len(contents) != len(embeddings) {
		return fmt.Errorf("chunk count %d does not match embedding count %d", len(contents), len(embeddings))
	}
	if len(contents) == 0 {
		return nil
	}

	chunks := make([]*model.DocumentChunk, len(contents))
	for i := range contents {
		chunks[i] = &model.DocumentChunk{
			Content:        contents[i],
			EmbeddingValue: pgvector.NewVector(embeddings[i]),
			DocumentId:     documentId,
			ChunkIndex:     i,
		}
	}
	return r.db.WithContext(ctx).Create(chunks).Error
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentId).
		Count(&count).Error
	return count, err
}

// SearchSimilarWithScore computes cosine similarity as 1 - (embedding_value <=> query)
// and returns hits for the named document at or above threshold, best first.
func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, documentName string, threshold float64) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("documents.name = ?", documentName).
		Where("document_chunks.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			ChunkId:    res.Id,
			Content:    res.Content,
			ChunkIndex: res.ChunkIndex,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
