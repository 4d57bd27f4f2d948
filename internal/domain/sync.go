package domain

import "time"

// PollMode is the cadence the poll scheduler is currently running at.
type PollMode string

const (
	PollModeNormal PollMode = "normal"
	PollModeFast   PollMode = "fast"
)

// SyncState is the externally visible state of the sync/poll subsystem.
type SyncState struct {
	LastSync  *time.Time `json:"lastSync,omitempty"`
	IsSyncing bool       `json:"isSyncing"`
	PollMode  PollMode   `json:"pollMode"`
}
