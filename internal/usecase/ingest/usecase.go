package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/health"
	"github.com/futig/scrapbox-rag/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	embeddingService = "embedding"
	storageService   = "storage"
)

// IngestUsecase re-indexes a Scrapbox project: pages are fetched one at a
// time and the chunks of each page are embedded and indexed concurrently.
// A single permit pool caps in-flight chunk work across the whole run.
type IngestUsecase struct {
	source    PageSource
	embedder  Embedder
	indexer   ChunkIndexer
	segmenter Segmenter
	gate      ReadinessGate
	journal   RunJournal
	permits   *semaphore.Weighted
	logger    *zap.Logger
}

// NewUsecase creates the ingest use case. journal may be nil.
func NewUsecase(
	source PageSource,
	embedder Embedder,
	indexer ChunkIndexer,
	segmenter Segmenter,
	gate ReadinessGate,
	journal RunJournal,
	concurrency int,
	logger *zap.Logger,
) *IngestUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &IngestUsecase{
		source:    source,
		embedder:  embedder,
		indexer:   indexer,
		segmenter: segmenter,
		gate:      gate,
		journal:   journal,
		permits:   semaphore.NewWeighted(int64(concurrency)),
		logger:    logger,
	}
}

type chunkStats struct {
	indexed atomic.Int64
	failed  atomic.Int64
}

// Ingest re-indexes every page of project. Pages that cannot be fetched and
// chunks that cannot be embedded or indexed are logged and skipped. An error
// is returned only when the run cannot start (missing project, dependencies
// not ready, page listing failed) or the context is cancelled; in that case
// nothing further is indexed.
func (uc *IngestUsecase) Ingest(ctx context.Context, project string) (*entity.IngestRun, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, entity.ErrMissingProject
	}

	run := &entity.IngestRun{
		ID:        uuid.New().String(),
		Project:   project,
		Status:    entity.IngestRunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	ctx = logger.WithRun(ctx, run.ID, project)
	ctx = logger.WithAction(ctx, "ingest")

	uc.journalStart(ctx, run)

	err := uc.gate.WaitReady(ctx,
		health.Probe{Name: embeddingService, Check: uc.embedder.Health},
		health.Probe{Name: storageService, Check: uc.indexer.Health},
	)
	if err != nil {
		return uc.abort(ctx, run, err)
	}

	pages, err := uc.source.ListPages(ctx, project)
	if err != nil {
		return uc.abort(ctx, run, err)
	}
	run.PagesTotal = len(pages)

	ctxzap.Info(ctx, "ingestion started", zap.Int("page_count", len(pages)))

	stats := &chunkStats{}
	for _, summary := range pages {
		if err := ctx.Err(); err != nil {
			uc.collect(run, stats)
			return uc.abort(ctx, run, err)
		}

		pageCtx := logger.WithPage(ctx, summary.Title)

		page, err := uc.source.GetPage(pageCtx, project, summary.Title)
		if err != nil {
			run.PagesSkipped++
			if errors.Is(err, entity.ErrPageNotFound) {
				ctxzap.Warn(pageCtx, "page not found, skipping")
			} else {
				ctxzap.Error(pageCtx, "page fetch failed, skipping", zap.Error(err))
			}
			continue
		}

		chunks := uc.segmenter.Segment(page, project)
		uc.indexPage(pageCtx, chunks, stats)
		run.PagesIndexed++

		ctxzap.Debug(pageCtx, "page processed", zap.Int("chunk_count", len(chunks)))
	}

	uc.collect(run, stats)
	run.Status = entity.IngestRunStatusCompleted
	uc.finish(ctx, run)

	ctxzap.Info(ctx, "ingestion completed",
		zap.Int("pages_indexed", run.PagesIndexed),
		zap.Int("pages_skipped", run.PagesSkipped),
		zap.Int("chunks_indexed", run.ChunksIndexed),
		zap.Int("chunks_failed", run.ChunksFailed),
	)

	return run, nil
}

// indexPage embeds and indexes all chunks of one page concurrently and
// returns once every one of them has finished.
func (uc *IngestUsecase) indexPage(ctx context.Context, chunks []entity.Chunk, stats *chunkStats) {
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		if err := uc.permits.Acquire(ctx, 1); err != nil {
			stats.failed.Add(int64(len(chunks) - i))
			ctxzap.Warn(ctx, "page indexing interrupted", zap.Error(err))
			break
		}

		wg.Add(1)
		go func(chunk entity.Chunk) {
			defer wg.Done()
			defer uc.permits.Release(1)

			if err := uc.indexChunk(ctx, chunk); err != nil {
				stats.failed.Add(1)
				ctxzap.Error(ctx, "chunk skipped",
					zap.String("chunk_id", chunk.ID),
					zap.Error(err),
				)
				return
			}
			stats.indexed.Add(1)
		}(chunk)
	}

	wg.Wait()
}

func (uc *IngestUsecase) indexChunk(ctx context.Context, chunk entity.Chunk) error {
	vector, err := uc.embedder.Embed(ctx, chunk.Content)
	if err != nil {
		return fmt.Errorf("embed chunk: %w", err)
	}
	if err := uc.indexer.IndexChunk(ctx, chunk, vector); err != nil {
		return fmt.Errorf("index chunk: %w", err)
	}
	return nil
}

func (uc *IngestUsecase) collect(run *entity.IngestRun, stats *chunkStats) {
	run.ChunksIndexed = int(stats.indexed.Load())
	run.ChunksFailed = int(stats.failed.Load())
}

func (uc *IngestUsecase) abort(ctx context.Context, run *entity.IngestRun, err error) (*entity.IngestRun, error) {
	run.Status = entity.IngestRunStatusAborted
	run.Error = err.Error()
	uc.finish(ctx, run)

	ctxzap.Error(ctx, "ingestion aborted", zap.Error(err))
	return run, fmt.Errorf("ingest %s: %w", run.Project, err)
}

func (uc *IngestUsecase) journalStart(ctx context.Context, run *entity.IngestRun) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Start(ctx, run); err != nil {
		ctxzap.Warn(ctx, "failed to record ingest run start", zap.Error(err))
	}
}

func (uc *IngestUsecase) finish(ctx context.Context, run *entity.IngestRun) {
	finished := time.Now().UTC()
	run.FinishedAt = &finished

	if uc.journal == nil {
		return
	}
	// The run context may already be cancelled; the journal still gets the
	// final state.
	if err := uc.journal.Finish(context.WithoutCancel(ctx), run); err != nil {
		ctxzap.Warn(ctx, "failed to record ingest run result", zap.Error(err))
	}
}
