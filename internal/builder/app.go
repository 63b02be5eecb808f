package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/scrapbox-rag/internal/usecase/ingest"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App represents the search and answer API with all its components
type App struct {
	server *http.Server
	logger *zap.Logger
}

// Run starts the HTTP server and blocks until a shutdown signal or a server
// error
func (a *App) Run() error {
	defer a.logger.Sync() //nolint:errcheck

	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

// Batch is a single ingestion run of one project
type Batch struct {
	ingest  *ingest.IngestUsecase
	project string
	db      *pgxpool.Pool
	logger  *zap.Logger
}

// Run ingests the configured project. An interrupt cancels the run; pages
// already indexed stay indexed.
func (b *Batch) Run() error {
	defer b.logger.Sync() //nolint:errcheck
	defer b.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxzap.ToContext(ctx, b.logger)

	run, err := b.ingest.Ingest(ctx, b.project)
	if err != nil {
		return err
	}

	b.logger.Info("Batch finished",
		zap.String("run_id", run.ID),
		zap.Int("pages_total", run.PagesTotal),
		zap.Int("pages_skipped", run.PagesSkipped),
		zap.Int("chunks_indexed", run.ChunksIndexed),
		zap.Int("chunks_failed", run.ChunksFailed),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)),
	)
	return nil
}

func (b *Batch) close() {
	if b.db != nil {
		b.logger.Info("Closing database connections")
		b.db.Close()
	}
}
