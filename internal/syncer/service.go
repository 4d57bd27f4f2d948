// Package syncer owns the sync pipeline: fetch the submissions CSV, decide
// whether anything actually changed, and rebuild the derived snapshot when it
// did. All fetch failures stop at this boundary; callers keep serving the
// last-known-good state.
package syncer

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"EvalsDashboard/internal/ports"
	"EvalsDashboard/internal/submissions"
)

// Bundled fallback dataset so the dashboard renders with zero round trips.
//
//go:embed seed_submissions.csv
var seedCSV string

// Service implements the sync client over an injected submission source.
type Service struct {
	source ports.SubmissionSource
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService seeds the store from the bundled dataset and wires the source.
func NewService(source ports.SubmissionSource, store *Store, logger *slog.Logger) *Service {
	s := &Service{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	if store.Raw() == "" {
		store.Swap(seedCSV, s.derive(seedCSV))
	}
	return s
}

// Refresh fetches the latest CSV and reports whether the dataset changed.
// Identical content leaves the retained state untouched so consumers can skip
// redundant refreshes. A fetch failure carries no partial data.
func (s *Service) Refresh(ctx context.Context) (changed bool, err error) {
	text, err := s.source.FetchCSV(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch submissions: %w", err)
	}

	if text == s.store.Raw() {
		s.debug("submissions unchanged")
		return false, nil
	}

	snap := s.derive(text)
	s.store.Swap(text, snap)
	s.debug("submissions reloaded", "problems", len(snap.Problems), "engineers", len(snap.Engineers))
	return true, nil
}

// Snapshot exposes the store's current derived state.
func (s *Service) Snapshot() Snapshot {
	return s.store.Snapshot()
}

func (s *Service) derive(text string) Snapshot {
	rows := submissions.ParseCSV(text)
	problems := submissions.ToProblems(rows, s.now)
	engineers := submissions.BuildEngineers(problems)
	return Snapshot{
		Problems:  problems,
		Engineers: engineers,
		Stats:     submissions.ComputeStats(problems, engineers),
	}
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
