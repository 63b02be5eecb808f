package search

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
	usecase SearchUsecase
}

func NewHandler(usecase SearchUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Search")

	var req entity.SearchRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: %w", entity.ErrInvalidFormat, err))
		return
	}

	results, err := h.usecase.Search(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "search served", zap.Int("result_count", len(results)))
	response.Success(w, results)
}

// Index handles POST /index
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Index")

	var req entity.IndexRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: %w", entity.ErrInvalidFormat, err))
		return
	}

	resp, err := h.usecase.Index(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Health")

	resp, err := h.usecase.Health(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "health check failed", zap.Error(err))
		response.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrEmptyQuery) {
		response.Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrServiceNotReady) {
		response.Error(ctx, w, http.StatusServiceUnavailable, "service not ready", err)
	} else if errors.Is(err, entity.ErrEmbeddingFailure) || errors.Is(err, entity.ErrSearchFailure) || errors.Is(err, entity.ErrIndexFailure) {
		response.Error(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	} else {
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
