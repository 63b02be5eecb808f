package entity

import "time"

type IngestRunStatus string

const (
	IngestRunStatusRunning   IngestRunStatus = "running"
	IngestRunStatusCompleted IngestRunStatus = "completed"
	IngestRunStatusAborted   IngestRunStatus = "aborted"
)

// IngestRun records the outcome of one ingest invocation for a project.
type IngestRun struct {
	ID            string
	Project       string
	Status        IngestRunStatus
	StartedAt     time.Time
	FinishedAt    *time.Time
	PagesTotal    int
	PagesIndexed  int
	PagesSkipped  int
	ChunksIndexed int
	ChunksFailed  int
	Error         string
}
