// Package source contains the HTTP adapters behind the submission and
// sync-status ports: a public mirror (static host kept fresh by the external
// sync workflow) and an authenticated origin API for environments that hold a
// token.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"EvalsDashboard/internal/ports"
)

const defaultTimeout = 20 * time.Second

// MirrorSource fetches the CSV from the public mirror. Mirrors sit behind
// long-lived caches, so every request carries a cache-busting query param.
type MirrorSource struct {
	csvURL string
	client *http.Client
	now    func() time.Time
}

var _ ports.SubmissionSource = (*MirrorSource)(nil)

// NewMirrorSource wires an HTTP client; a nil client gets a sane timeout.
func NewMirrorSource(csvURL string, client *http.Client) *MirrorSource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &MirrorSource{csvURL: csvURL, client: client, now: time.Now}
}

// FetchCSV downloads the current submissions file.
func (m *MirrorSource) FetchCSV(ctx context.Context) (string, error) {
	target, err := cacheBust(m.csvURL, m.now())
	if err != nil {
		return "", err
	}
	return fetchText(ctx, m.client, target, nil)
}

// OriginSource fetches the CSV straight from the origin repository API using
// a bearer token. Used in development where the mirror may lag.
type OriginSource struct {
	csvURL string
	token  string
	client *http.Client
}

var _ ports.SubmissionSource = (*OriginSource)(nil)

// NewOriginSource wires the authenticated origin fetcher.
func NewOriginSource(csvURL, token string, client *http.Client) *OriginSource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &OriginSource{csvURL: csvURL, token: token, client: client}
}

// FetchCSV requests the raw file representation from the origin API.
func (o *OriginSource) FetchCSV(ctx context.Context) (string, error) {
	headers := map[string]string{
		"Authorization":        "Bearer " + o.token,
		"Accept":               "application/vnd.github.raw+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	return fetchText(ctx, o.client, o.csvURL, headers)
}

func fetchText(ctx context.Context, client *http.Client, target string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "EvalsDashboard/1.0")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("csv source returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func cacheBust(base string, now time.Time) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid source url %s: %w", base, err)
	}
	query := parsed.Query()
	query.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
