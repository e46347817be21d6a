package search

import (
	"context"

	"ai-examcoach-be/pkg/store"
)

// Provider is the capability interface shared by the knowledge-base and web
// search variants. Implementations return hits in their own ranking order;
// callers must not re-sort. A failed provider call may be treated as zero
// results by the retrieval router.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error)
}
