package answer

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Searcher interface {
	Search(ctx context.Context, req *entity.SearchRequest) ([]entity.SearchResult, error)
}
