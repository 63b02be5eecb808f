package answer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/pkg/logger"
	"github.com/futig/scrapbox-rag/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AnswerUsecase
}

func NewHandler(usecase AnswerUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Generate handles POST /generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Generate")

	var req entity.GenerateRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: %w", entity.ErrInvalidFormat, err))
		return
	}

	resp, err := h.usecase.Generate(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.SearchRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: %w", entity.ErrInvalidFormat, err))
		return
	}

	resp, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int("result_count", len(resp.Results)),
		zap.Int("source_count", len(resp.Sources)),
	)
	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrEmptyQuery) {
		response.Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrEmbeddingFailure) || errors.Is(err, entity.ErrSearchFailure) || errors.Is(err, entity.ErrGenerateFailure) {
		response.Error(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	} else {
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
