package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"EvalsDashboard/internal/ports"
)

// StatusProbe reads the sync-status descriptor the external workflow writes
// next to the mirrored CSV. It is much cheaper than fetching the full file,
// which is why the poll scheduler can afford a fast cadence against it.
type StatusProbe struct {
	statusURL string
	client    *http.Client
	now       func() time.Time
}

var _ ports.SyncStatusSource = (*StatusProbe)(nil)

// NewStatusProbe wires the JSON descriptor endpoint.
func NewStatusProbe(statusURL string, client *http.Client) *StatusProbe {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &StatusProbe{statusURL: statusURL, client: client, now: time.Now}
}

// LastSync fetches {"lastSync": "<timestamp>"}. An absent or empty field is
// reported as ok=false; only transport and decode problems are errors.
func (s *StatusProbe) LastSync(ctx context.Context) (time.Time, bool, error) {
	target, err := cacheBust(s.statusURL, s.now())
	if err != nil {
		return time.Time{}, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "EvalsDashboard/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("request status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("status source returned %s", resp.Status)
	}

	var payload struct {
		LastSync string `json:"lastSync"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return time.Time{}, false, fmt.Errorf("decode status: %w", err)
	}
	if payload.LastSync == "" {
		return time.Time{}, false, nil
	}

	ts, err := time.Parse(time.RFC3339, payload.LastSync)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse lastSync %q: %w", payload.LastSync, err)
	}
	return ts, true, nil
}
