package scrapbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"
	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/integration/common"
	pkghttp "github.com/futig/scrapbox-rag/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const sessionCookie = "connect.sid"

type Connector struct {
	config    config.ScrapboxConnectorConfig
	connector *pkghttp.Connector
	limiter   *rate.Limiter
	timer     retry.Timer
	logger    *zap.Logger
}

type Option func(*Connector)

// WithTimer replaces the timer used between retries.
func WithTimer(t retry.Timer) Option {
	return func(c *Connector) {
		c.timer = t
	}
}

func NewConnector(
	cfg config.ScrapboxConnectorConfig,
	logger *zap.Logger,
	opts ...Option,
) *Connector {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	c := &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithCookie(sessionCookie, cfg.SessionID)),
		config:    cfg,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPages returns the summaries of the project's pages in a single listing
// call bounded by the configured page limit.
// GET /api/pages/{project}?limit={n}
func (c *Connector) ListPages(ctx context.Context, project string) ([]entity.PageSummary, error) {
	endpoint := fmt.Sprintf("/api/pages/%s?limit=%d", url.PathEscape(project), c.config.PageLimit)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp entity.PageList
	if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrPageListFailure, err)
	}

	ctxzap.Info(ctx, "pages listed",
		zap.Int("page_count", len(resp.Pages)),
		zap.Int("project_page_count", resp.Count),
	)

	return resp.Pages, nil
}

// GetPage fetches the full content of a page. Transient failures are retried
// with exponential backoff; a 404 is returned as entity.ErrPageNotFound
// without retrying.
// GET /api/pages/{project}/{title}
func (c *Connector) GetPage(ctx context.Context, project, title string) (*entity.Page, error) {
	endpoint := fmt.Sprintf("/api/pages/%s/%s", url.PathEscape(project), url.PathEscape(title))

	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, entity.ErrPageNotFound) && !errors.Is(err, context.Canceled)
		}),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "page fetch failed, retrying",
				zap.String("page_title", title),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if c.timer != nil {
		opts = append(opts, retry.WithTimer(c.timer))
	}

	return retry.DoWithData(func() (*entity.Page, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var page entity.Page
		err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &page)
		if pkghttp.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", entity.ErrPageNotFound, title)
		}
		if err != nil {
			return nil, err
		}
		return &page, nil
	}, opts...)
}
