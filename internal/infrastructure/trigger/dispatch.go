// Package trigger notifies the external sync workflow that a manual re-sync
// was requested. The workflow itself (regenerating the CSV and the status
// descriptor) is an external collaborator; the core only fires the request.
package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"EvalsDashboard/internal/ports"
)

// WorkflowDispatch posts an authenticated dispatch call to the workflow API.
type WorkflowDispatch struct {
	endpoint string
	token    string
	ref      string
	client   *http.Client
}

var _ ports.SyncTrigger = (*WorkflowDispatch)(nil)

// NewWorkflowDispatch builds the authenticated trigger. ref defaults to main.
func NewWorkflowDispatch(endpoint, token, ref string, client *http.Client) *WorkflowDispatch {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if ref == "" {
		ref = "main"
	}
	return &WorkflowDispatch{endpoint: endpoint, token: token, ref: ref, client: client}
}

// Dispatch fires the workflow. The API replies 204 on success.
func (w *WorkflowDispatch) Dispatch(ctx context.Context) error {
	if w.endpoint == "" || w.token == "" {
		return fmt.Errorf("workflow dispatch misconfigured")
	}

	body, err := json.Marshal(map[string]string{"ref": w.ref})
	if err != nil {
		return fmt.Errorf("marshal dispatch payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch workflow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("workflow dispatch %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

// ConsoleTrigger is the unauthenticated fallback: it cannot fire the workflow
// itself, so it surfaces the operations-console URL for a human to act on.
// Fast polling still starts either way.
type ConsoleTrigger struct {
	consoleURL string
	logger     *slog.Logger
}

var _ ports.SyncTrigger = (*ConsoleTrigger)(nil)

// NewConsoleTrigger records the console URL to point operators at.
func NewConsoleTrigger(consoleURL string, logger *slog.Logger) *ConsoleTrigger {
	return &ConsoleTrigger{consoleURL: consoleURL, logger: logger}
}

// Dispatch logs where the manual trigger lives; never an error.
func (c *ConsoleTrigger) Dispatch(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("manual sync requested, trigger the workflow from the console", "url", c.consoleURL)
	}
	return nil
}
