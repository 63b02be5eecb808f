package search

import (
	"context"
	"fmt"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/pkg/validator"
	"github.com/futig/scrapbox-rag/internal/retriever"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	llmConnected    = "connected"
	llmDisconnected = "disconnected"
	indexedResult   = "indexed"
)

// SearchUsecase serves hybrid search and chunk indexing over the document
// store.
type SearchUsecase struct {
	retriever Retriever
	store     DocumentStore
	llm       LLMHealth
	validator *validator.Validator
	config    config.SearchConfig
	logger    *zap.Logger
}

func NewUsecase(
	retriever Retriever,
	store DocumentStore,
	llm LLMHealth,
	validator *validator.Validator,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		retriever: retriever,
		store:     store,
		llm:       llm,
		validator: validator,
		config:    cfg,
		logger:    logger,
	}
}

// Search returns the chunks that best match req.Query by descending score.
func (uc *SearchUsecase) Search(ctx context.Context, req *entity.SearchRequest) ([]entity.SearchResult, error) {
	if err := uc.validator.ValidateSearch(req); err != nil {
		return nil, err
	}

	topK := uc.TopK(req.TopK)
	ctxzap.Info(ctx, "searching chunks", zap.Int("top_k", topK))

	return uc.retriever.Search(ctx, req.Query, topK)
}

// TopK resolves the requested result count: nil selects the default and
// values above the maximum are clamped. Callers validate that a given value
// is positive.
func (uc *SearchUsecase) TopK(requested *int) int {
	if requested == nil || *requested < 1 {
		return uc.config.DefaultTopK
	}
	if *requested > uc.config.MaxTopK {
		return uc.config.MaxTopK
	}
	return *requested
}

// Index stores a chunk and its sparse vector under the chunk ID.
func (uc *SearchUsecase) Index(ctx context.Context, req *entity.IndexRequest) (*entity.IndexResponse, error) {
	if err := uc.validator.ValidateIndex(req); err != nil {
		return nil, err
	}

	doc := retriever.ToDocument(&req.Chunk, req.Vector)
	if err := uc.store.IndexDocument(ctx, req.Chunk.ID, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndexFailure, err)
	}

	ctxzap.Debug(ctx, "chunk indexed",
		zap.String("chunk_id", req.Chunk.ID),
		zap.Int("vector_size", len(doc.Vector)),
	)

	return &entity.IndexResponse{Result: indexedResult, ID: req.Chunk.ID}, nil
}

// Health reports the engine cluster status and LLM reachability. The
// response is always filled; the error is entity.ErrServiceNotReady when the
// engine cannot be reached.
func (uc *SearchUsecase) Health(ctx context.Context) (*entity.HealthResponse, error) {
	resp := &entity.HealthResponse{Status: entity.HealthStatusOK, LLM: llmConnected}

	if err := uc.llm.Health(ctx); err != nil {
		ctxzap.Warn(ctx, "LLM health check failed", zap.Error(err))
		resp.LLM = llmDisconnected
	}

	status, err := uc.store.ClusterHealth(ctx)
	if err != nil {
		resp.Status = entity.HealthStatusUnavailable
		resp.Elasticsearch = entity.HealthStatusUnavailable
		return resp, fmt.Errorf("%w: elasticsearch: %w", entity.ErrServiceNotReady, err)
	}
	resp.Elasticsearch = status

	return resp, nil
}
