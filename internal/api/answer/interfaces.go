package answer

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
)

type AnswerUsecase interface {
	Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.GenerateResponse, error)
	Ask(ctx context.Context, req *entity.SearchRequest) (*entity.AskResponse, error)
}
