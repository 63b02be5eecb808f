package ingest

import (
	"context"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/futig/scrapbox-rag/internal/health"
)

type PageSource interface {
	ListPages(ctx context.Context, project string) ([]entity.PageSummary, error)
	GetPage(ctx context.Context, project, title string) (*entity.Page, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.SparseVector, error)
	Health(ctx context.Context) error
}

type ChunkIndexer interface {
	IndexChunk(ctx context.Context, chunk entity.Chunk, vector entity.SparseVector) error
	Health(ctx context.Context) error
}

type Segmenter interface {
	Segment(page *entity.Page, project string) []entity.Chunk
}

type ReadinessGate interface {
	WaitReady(ctx context.Context, probes ...health.Probe) error
}

// RunJournal persists ingest run progress. Optional.
type RunJournal interface {
	Start(ctx context.Context, run *entity.IngestRun) error
	Finish(ctx context.Context, run *entity.IngestRun) error
}
