package ports

import (
	"context"

	"openframing-service/internal/core/domain"
)

// JobQueue is the background job transport. Dequeue blocks until a job is
// available or the context is cancelled.
type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.Job) error
	Dequeue(ctx context.Context) (*domain.Job, error)
}

// ProgressStore holds live progress snapshots for running jobs. Get returns
// (nil, nil) when no snapshot exists for the key.
type ProgressStore interface {
	Set(ctx context.Context, p domain.Progress) error
	Get(ctx context.Context, scope domain.ProgressScope, entityID int64) (*domain.Progress, error)
	Clear(ctx context.Context, scope domain.ProgressScope, entityID int64) error
}
