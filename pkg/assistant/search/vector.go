package search

import (
	"context"
	"fmt"

	"ai-examcoach-be/internal/repository/contract"
	"ai-examcoach-be/pkg/embedding"
	"ai-examcoach-be/pkg/store"
)

// VectorProvider searches the knowledge base of one document. Scores come
// back as cosine similarity (1 - distance), higher is more relevant.
type VectorProvider struct {
	chunkRepo         contract.DocumentChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	documentName      string
}

var _ Provider = &VectorProvider{}

func NewVectorProvider(
	chunkRepo contract.DocumentChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
	documentName string,
) *VectorProvider {
	return &VectorProvider{
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		documentName:      documentName,
	}
}

func (p *VectorProvider) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	embeddingRes, err := p.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := p.chunkRepo.SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		limit,
		p.documentName,
		0.0, // threshold routing happens in the router, not the store
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]store.SearchResult, 0, len(scored))
	for _, s := range scored {
		results = append(results, store.SearchResult{
			Content: s.Content,
			Source:  store.SourceVectorDB,
			Score:   s.Similarity,
			Metadata: map[string]interface{}{
				"document_name": p.documentName,
				"chunk_index":   s.ChunkIndex,
			},
		})
	}
	return results, nil
}
