package ports

import (
	"context"
	"time"

	"EvalsDashboard/internal/domain"
)

// SubmissionSource fetches the raw submissions CSV from its remote source of
// truth. Which backend serves it (authenticated origin API vs public mirror)
// is a deployment decision made in config, not core logic.
type SubmissionSource interface {
	FetchCSV(ctx context.Context) (string, error)
}

// SyncStatusSource probes the lightweight sync-status descriptor. ok is false
// when the descriptor carries no timestamp; that means "no update", not an
// error.
type SyncStatusSource interface {
	LastSync(ctx context.Context) (ts time.Time, ok bool, err error)
}

// SyncTrigger kicks the external workflow that regenerates the CSV. The core
// only needs to know that a trigger was requested; the workflow itself is an
// external collaborator.
type SyncTrigger interface {
	Dispatch(ctx context.Context) error
}

// OrderSource loads the manually curated client orders.
type OrderSource interface {
	Load(ctx context.Context) ([]domain.Order, error)
}
