package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/integration/common"
	pkghttp "github.com/futig/scrapbox-rag/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls an Ollama server.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Generate runs a single non-streaming completion for prompt and returns the
// trimmed answer.
// POST {generate_endpoint}
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	req := &entity.OllamaGenerateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: entity.OllamaOptions{
			Temperature: c.config.Temperature,
		},
	}

	ctxzap.Info(ctx, "generating answer via LLM service", zap.String("model", c.config.Model))

	var resp entity.OllamaGenerateResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrGenerateFailure, err)
	}

	answer := strings.TrimSpace(resp.Response)
	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(answer)))

	return answer, nil
}

// Health succeeds when the model server lists its tags.
// GET {tags_endpoint}
func (c *Connector) Health(ctx context.Context) error {
	return c.connector.DoRequest(ctx, http.MethodGet, c.config.TagsEndpoint, nil, nil)
}
