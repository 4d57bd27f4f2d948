// Package poller drives the two recurring probes: the cheap sync-status
// descriptor and the full CSV refresh. It is modeled as a small state machine
// with a Normal cadence at rest and a bounded Fast cadence after a manual
// sync, so the give-up timeout and the restart-on-retrigger behaviors stay
// independently testable.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"EvalsDashboard/internal/domain"
	"EvalsDashboard/internal/ports"
)

// Refresher re-syncs the CSV-derived snapshot; implemented by syncer.Service.
type Refresher interface {
	Refresh(ctx context.Context) (changed bool, err error)
}

// Intervals groups the scheduler cadences.
type Intervals struct {
	Normal      time.Duration // status probe cadence at rest
	Fast        time.Duration // status probe cadence after a manual sync
	FastWindow  time.Duration // how long fast polling may run before giving up
	DataRefresh time.Duration // full CSV refresh cadence, independent of mode
}

// DefaultIntervals mirrors the cadences the dashboard always ran with.
func DefaultIntervals() Intervals {
	return Intervals{
		Normal:      10 * time.Second,
		Fast:        3 * time.Second,
		FastWindow:  90 * time.Second,
		DataRefresh: 30 * time.Second,
	}
}

// Poller owns all mutable sync/poll state. Everything it touches is guarded
// by one mutex; the run loop and the HTTP handlers are the only writers.
type Poller struct {
	status    ports.SyncStatusSource
	trigger   ports.SyncTrigger
	refresher Refresher
	intervals Intervals
	logger    *slog.Logger

	mu        sync.Mutex
	mode      domain.PollMode
	isSyncing bool
	lastSync  *time.Time
	lastKnown *time.Time

	retrigger chan struct{}
	stop      chan struct{}
}

// New wires the poller; any of status, trigger, refresher may be nil, in
// which case the corresponding probe is skipped.
func New(status ports.SyncStatusSource, trigger ports.SyncTrigger, refresher Refresher, intervals Intervals, logger *slog.Logger) *Poller {
	if intervals.Normal <= 0 {
		intervals = DefaultIntervals()
	}
	p := &Poller{
		status:    status,
		trigger:   trigger,
		refresher: refresher,
		intervals: intervals,
		logger:    logger,
		mode:      domain.PollModeNormal,
		retrigger: make(chan struct{}, 1),
	}
	return p
}

// Start launches the polling loop. It probes once immediately so the status
// indicator is not blank until the first tick elapses.
func (p *Poller) Start(ctx context.Context) error {
	if p.stop != nil {
		return nil
	}
	p.stop = make(chan struct{})

	go p.run(ctx)
	return nil
}

// Stop halts the loop and clears any outstanding timers.
func (p *Poller) Stop(ctx context.Context) error {
	if p.stop == nil {
		return nil
	}
	close(p.stop)
	p.stop = nil
	return nil
}

// TriggerSync marks the subsystem as syncing, dispatches the external
// workflow trigger, and switches to fast polling. Re-triggering while already
// fast restarts the give-up window instead of stacking timers.
func (p *Poller) TriggerSync(ctx context.Context) error {
	p.mu.Lock()
	p.isSyncing = true
	p.mode = domain.PollModeFast
	p.mu.Unlock()

	select {
	case p.retrigger <- struct{}{}:
	default:
	}

	if p.trigger == nil {
		return nil
	}
	if err := p.trigger.Dispatch(ctx); err != nil {
		p.warn("sync trigger dispatch failed", "error", err)
		return err
	}
	return nil
}

// State returns the externally visible sync state.
func (p *Poller) State() domain.SyncState {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := domain.SyncState{IsSyncing: p.isSyncing, PollMode: p.mode}
	if p.lastSync != nil {
		ts := *p.lastSync
		state.LastSync = &ts
	}
	return state
}

func (p *Poller) run(ctx context.Context) {
	stop := p.stop

	p.probeStatus(ctx)
	p.refreshData(ctx)

	statusTicker := time.NewTicker(p.intervals.Normal)
	defer statusTicker.Stop()
	dataTicker := time.NewTicker(p.intervals.DataRefresh)
	defer dataTicker.Stop()

	var fastTimer *time.Timer
	var timeoutC <-chan time.Time
	defer func() {
		if fastTimer != nil {
			fastTimer.Stop()
		}
	}()

	for {
		select {
		case <-statusTicker.C:
			p.probeStatus(ctx)
		case <-dataTicker.C:
			p.refreshData(ctx)
		case <-p.retrigger:
			statusTicker.Reset(p.intervals.Fast)
			if fastTimer == nil {
				fastTimer = time.NewTimer(p.intervals.FastWindow)
				timeoutC = fastTimer.C
			} else {
				if !fastTimer.Stop() {
					select {
					case <-fastTimer.C:
					default:
					}
				}
				fastTimer.Reset(p.intervals.FastWindow)
			}
		case <-timeoutC:
			// Give up: back to normal cadence no matter what the remote did,
			// and force-clear the syncing flag as a safety net.
			fastTimer = nil
			timeoutC = nil
			statusTicker.Reset(p.intervals.Normal)
			p.mu.Lock()
			p.mode = domain.PollModeNormal
			p.isSyncing = false
			p.mu.Unlock()
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}

// probeStatus reads the remote sync-status descriptor. A changed timestamp
// means the remote sync completed, which silences the syncing indicator; it
// does not by itself end fast polling, since more updates may follow.
func (p *Poller) probeStatus(ctx context.Context) {
	if p.status == nil {
		return
	}

	ts, ok, err := p.status.LastSync(ctx)
	if err != nil {
		p.warn("sync status probe failed", "error", err)
		return
	}
	if !ok {
		return
	}

	p.mu.Lock()
	if p.lastKnown != nil && !ts.Equal(*p.lastKnown) {
		p.isSyncing = false
	}
	known := ts
	p.lastKnown = &known
	last := ts
	p.lastSync = &last
	p.mu.Unlock()
}

func (p *Poller) refreshData(ctx context.Context) {
	if p.refresher == nil {
		return
	}

	changed, err := p.refresher.Refresh(ctx)
	if err != nil {
		// Retryable by construction: the next tick tries again and the
		// last-known-good snapshot keeps serving.
		p.warn("data refresh failed", "error", err)
		return
	}
	if changed {
		p.info("dataset changed, snapshot rebuilt")
	}
}

func (p *Poller) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Poller) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
