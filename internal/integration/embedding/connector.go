package embedding

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

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Embed returns the sparse vector of text.
// POST {embed_endpoint} {"text": ...}
func (c *Connector) Embed(ctx context.Context, text string) (entity.SparseVector, error) {
	var resp entity.EmbeddingResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, &entity.EmbeddingRequest{Text: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingFailure, err)
	}

	ctxzap.Debug(ctx, "text embedded",
		zap.Int("text_length", len(text)),
		zap.Int("vector_size", len(resp.Vector)),
	)

	return resp.Vector, nil
}

// Health succeeds once the embedding service reports status "ok".
func (c *Connector) Health(ctx context.Context) error {
	var resp entity.HealthResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, &resp); err != nil {
		return err
	}
	if resp.Status != entity.HealthStatusOK {
		return fmt.Errorf("%w: embedding status %q", entity.ErrServiceNotReady, resp.Status)
	}
	return nil
}
