package search

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
)

type Retriever interface {
	Search(ctx context.Context, text string, topK int) ([]entity.SearchResult, error)
}

type DocumentStore interface {
	IndexDocument(ctx context.Context, id string, doc *entity.StoredDocument) error
	ClusterHealth(ctx context.Context) (string, error)
}

type LLMHealth interface {
	Health(ctx context.Context) error
}
