package elastic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/integration/common"
	pkghttp "github.com/futig/scrapbox-rag/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type clusterHealthResponse struct {
	Status string `json:"status"`
}

// Connector is a thin REST client for the Elasticsearch index holding chunks.
type Connector struct {
	config    config.ElasticConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ElasticConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Ping succeeds once the cluster answers its root endpoint.
// GET /
func (c *Connector) Ping(ctx context.Context) error {
	return c.connector.DoRequest(ctx, http.MethodGet, "/", nil, nil)
}

// ClusterHealth returns the cluster status (green, yellow or red).
// GET /_cluster/health
func (c *Connector) ClusterHealth(ctx context.Context) (string, error) {
	var resp clusterHealthResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, "/_cluster/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// EnsureIndex creates the chunk index with its mapping unless it already
// exists.
// HEAD /{index}, then PUT /{index}
func (c *Connector) EnsureIndex(ctx context.Context) error {
	endpoint := c.indexPath()

	err := c.connector.DoRequest(ctx, http.MethodHead, endpoint, nil, nil)
	if err == nil {
		ctxzap.Info(ctx, "index already exists", zap.String("index", c.config.Index))
		return nil
	}
	if !pkghttp.IsNotFound(err) {
		return fmt.Errorf("check index: %w", err)
	}

	if err := c.connector.DoRequest(ctx, http.MethodPut, endpoint, indexMapping(c.config.Analyzer), nil); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	ctxzap.Info(ctx, "index created", zap.String("index", c.config.Index))
	return nil
}

// IndexDocument stores doc under id, replacing any previous version.
// PUT /{index}/_doc/{id}
func (c *Connector) IndexDocument(ctx context.Context, id string, doc *entity.StoredDocument) error {
	endpoint := fmt.Sprintf("%s/_doc/%s", c.indexPath(), url.PathEscape(id))
	return c.connector.DoRequest(ctx, http.MethodPut, endpoint, doc, nil)
}

// Search runs query against the chunk index and returns the hits in engine
// order.
// POST /{index}/_search
func (c *Connector) Search(ctx context.Context, query *entity.EngineQuery) ([]entity.EngineHit, error) {
	var resp entity.EngineSearchResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.indexPath()+"/_search", query, &resp); err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "engine search completed", zap.Int("hit_count", len(resp.Hits.Hits)))
	return resp.Hits.Hits, nil
}

func (c *Connector) indexPath() string {
	return "/" + url.PathEscape(c.config.Index)
}

func indexMapping(analyzer string) map[string]any {
	text := map[string]any{"type": "text", "analyzer": analyzer}
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"content": map[string]any{
					"type":     "text",
					"analyzer": analyzer,
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword", "ignore_above": 8191},
					},
				},
				"page_title":   text,
				"project_name": map[string]any{"type": "keyword"},
				"url":          map[string]any{"type": "keyword"},
				"updated_at":   map[string]any{"type": "date"},
				"indent_level": map[string]any{"type": "integer"},
				"vector":       map[string]any{"type": "rank_features"},
			},
		},
	}
}
