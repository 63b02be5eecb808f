package answer

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AnswerUsecase answers questions from retrieved Scrapbox chunks.
type AnswerUsecase struct {
	generator Generator
	searcher  Searcher
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	generator Generator,
	searcher Searcher,
	validator *validator.Validator,
	logger *zap.Logger,
) *AnswerUsecase {
	return &AnswerUsecase{
		generator: generator,
		searcher:  searcher,
		validator: validator,
		logger:    logger,
	}
}

// Generate answers req.Query using only req.Context.
func (uc *AnswerUsecase) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.GenerateResponse, error) {
	if err := uc.validator.ValidateGenerate(req); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "generating answer", zap.Int("context_chunks", len(req.Context)))

	answer, err := uc.generator.Generate(ctx, BuildPrompt(req.Query, req.Context))
	if err != nil {
		return nil, err
	}

	return &entity.GenerateResponse{
		Answer:  answer,
		Sources: Sources(req.Context),
	}, nil
}

// Ask searches for req.Query and answers it from the results.
func (uc *AnswerUsecase) Ask(ctx context.Context, req *entity.SearchRequest) (*entity.AskResponse, error) {
	results, err := uc.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	chunks := make([]entity.Chunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Chunk)
	}

	resp, err := uc.Generate(ctx, &entity.GenerateRequest{Query: req.Query, Context: chunks})
	if err != nil {
		return nil, err
	}

	return &entity.AskResponse{
		Answer:  resp.Answer,
		Sources: resp.Sources,
		Results: results,
	}, nil
}
