package search

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/integration/common"
	pkghttp "github.com/futig/scrapbox-rag/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the storage service (cmd/rag-api) from the batch side.
type Connector struct {
	config    config.SearchConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.SearchConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// IndexChunk stores a chunk together with its sparse vector.
// POST {index_endpoint} {"chunk": ..., "vector": ...}
func (c *Connector) IndexChunk(ctx context.Context, chunk entity.Chunk, vector entity.SparseVector) error {
	req := &entity.IndexRequest{Chunk: chunk, Vector: vector}

	var resp entity.IndexResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.IndexEndpoint, req, &resp); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrIndexFailure, err)
	}

	ctxzap.Debug(ctx, "chunk indexed", zap.String("chunk_id", resp.ID))
	return nil
}

// Health succeeds once the storage service reports status "ok". The service
// answers 503 while its engine is unreachable, which surfaces as an error here.
func (c *Connector) Health(ctx context.Context) error {
	var resp entity.HealthResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, &resp); err != nil {
		return err
	}
	if resp.Status != entity.HealthStatusOK {
		return fmt.Errorf("%w: storage status %q", entity.ErrServiceNotReady, resp.Status)
	}
	return nil
}
