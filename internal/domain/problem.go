package domain

import (
	"strings"
	"time"
)

// Status is the closed review-state vocabulary. Raw CSV values are free text
// and must pass through NormalizeStatus before they reach a Problem.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// NormalizeStatus folds an arbitrary status string into the closed vocabulary.
// Matching is case-insensitive and whitespace-trimmed; anything unrecognized
// (qc, in_review, empty, ...) is pending.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accepted", "complete", "completed", "done":
		return StatusAccepted
	case "rejected", "failed":
		return StatusRejected
	default:
		return StatusPending
	}
}

// Reviewed reports whether the status has left the pending state.
func (s Status) Reviewed() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Problem is one reviewable submission derived from a CSV row.
type Problem struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ExternalLink string     `json:"externalLink,omitempty"`
	KitType      string     `json:"kitType"`
	Engineer     string     `json:"engineer"`
	Status       Status     `json:"status"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
}

// ReviewDate is the date used for revenue attribution: the review date when
// known, otherwise the submission date.
func (p Problem) ReviewDate() time.Time {
	if p.ReviewedAt != nil {
		return *p.ReviewedAt
	}
	return p.SubmittedAt
}

// Engineer is a per-contributor rollup recomputed from the full problem set.
type Engineer struct {
	Name          string    `json:"name"`
	AcceptedCount int       `json:"acceptedCount"`
	LastSubmitted time.Time `json:"lastSubmitted"`
}

// Stats summarizes the current problem set.
type Stats struct {
	PendingCount      int `json:"pendingCount"`
	AcceptedCount     int `json:"acceptedCount"`
	RejectedCount     int `json:"rejectedCount"`
	ReviewedCount     int `json:"reviewedCount"`
	AcceptanceRate    int `json:"acceptanceRate"`
	TotalContributors int `json:"totalContributors"`
}
