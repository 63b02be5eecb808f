// Package health blocks startup until dependent services answer their health
// checks.
package health

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/futig/scrapbox-rag/internal/entity"
	pkgRetry "github.com/futig/scrapbox-rag/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Probe is a named readiness check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type Gate struct {
	config *pkgRetry.RetryConfig
	timer  retry.Timer
}

type Option func(*Gate)

// WithTimer replaces the timer used between polls.
func WithTimer(t retry.Timer) Option {
	return func(g *Gate) {
		g.timer = t
	}
}

func NewGate(cfg *pkgRetry.RetryConfig, opts ...Option) *Gate {
	g := &Gate{config: cfg}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WaitReady polls each probe in order, with a fixed delay between attempts,
// until it passes. The first probe that exhausts its attempts stops the wait
// and the error wraps entity.ErrServiceNotReady.
func (g *Gate) WaitReady(ctx context.Context, probes ...Probe) error {
	for _, p := range probes {
		if err := g.wait(ctx, p); err != nil {
			ctxzap.Error(ctx, "service never became ready",
				zap.String("service", p.Name),
				zap.Uint("attempts", g.config.Attempts),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %s: %w", entity.ErrServiceNotReady, p.Name, err)
		}
		ctxzap.Info(ctx, "service is ready", zap.String("service", p.Name))
	}
	return nil
}

func (g *Gate) wait(ctx context.Context, p Probe) error {
	opts := append(g.config.ToFixedOptions(),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Info(ctx, "waiting for service",
				zap.String("service", p.Name),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", g.config.Attempts),
				zap.Error(err),
			)
		}),
	)
	if g.timer != nil {
		opts = append(opts, retry.WithTimer(g.timer))
	}

	return retry.Do(func() error {
		return p.Check(ctx)
	}, opts...)
}
