package search

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
)

type SearchUsecase interface {
	Search(ctx context.Context, req *entity.SearchRequest) ([]entity.SearchResult, error)
	Index(ctx context.Context, req *entity.IndexRequest) (*entity.IndexResponse, error)
	Health(ctx context.Context) (*entity.HealthResponse, error)
}
