package repository

import (
	"context"
	"fmt"

	"github.com/futig/scrapbox-rag/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository defines the interface for ingest run persistence
type RunRepository interface {
	Start(ctx context.Context, run *entity.IngestRun) error
	Finish(ctx context.Context, run *entity.IngestRun) error
}

var _ RunRepository = &RunPostgres{}

const (
	insertRunQuery = `
INSERT INTO ingest_runs (id, project, status, started_at)
VALUES ($1, $2, $3, $4)`

	finishRunQuery = `
UPDATE ingest_runs
SET status = $2,
    finished_at = $3,
    pages_total = $4,
    pages_indexed = $5,
    pages_skipped = $6,
    chunks_indexed = $7,
    chunks_failed = $8,
    error = $9
WHERE id = $1`
)

// RunPostgres implements RunRepository using PostgreSQL
type RunPostgres struct {
	db *pgxpool.Pool
}

func NewRunPostgres(db *pgxpool.Pool) *RunPostgres {
	return &RunPostgres{
		db: db,
	}
}

func (r *RunPostgres) Start(ctx context.Context, run *entity.IngestRun) error {
	runID, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("parse run ID: %w", err)
	}

	_, err = r.db.Exec(ctx, insertRunQuery,
		pgtype.UUID{Bytes: runID, Valid: true},
		run.Project,
		string(run.Status),
		pgtype.Timestamptz{Time: run.StartedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert ingest run: %w", err)
	}

	return nil
}

func (r *RunPostgres) Finish(ctx context.Context, run *entity.IngestRun) error {
	runID, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("parse run ID: %w", err)
	}

	finishedAt := pgtype.Timestamptz{}
	if run.FinishedAt != nil {
		finishedAt = pgtype.Timestamptz{Time: *run.FinishedAt, Valid: true}
	}

	tag, err := r.db.Exec(ctx, finishRunQuery,
		pgtype.UUID{Bytes: runID, Valid: true},
		string(run.Status),
		finishedAt,
		run.PagesTotal,
		run.PagesIndexed,
		run.PagesSkipped,
		run.ChunksIndexed,
		run.ChunksFailed,
		pgtype.Text{String: run.Error, Valid: run.Error != ""},
	)
	if err != nil {
		return fmt.Errorf("update ingest run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update ingest run %s: no such run", run.ID)
	}

	return nil
}
