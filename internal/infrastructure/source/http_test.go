package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMirrorSourceFetchCSV(t *testing.T) {
	t.Parallel()

	const body = "id,title\n1,First\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Errorf("expected a cache-busting query param, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "EvalsDashboard/1.0" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	src := NewMirrorSource(srv.URL+"/submissions.csv", srv.Client())
	got, err := src.FetchCSV(context.Background())
	if err != nil {
		t.Fatalf("FetchCSV error: %v", err)
	}
	if got != body {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestMirrorSourceNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewMirrorSource(srv.URL, srv.Client())
	if _, err := src.FetchCSV(context.Background()); err == nil {
		t.Fatalf("expected an error for a 503 response")
	}
}

func TestOriginSourceSendsAuthHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github.raw+json" {
			t.Errorf("unexpected accept header %q", got)
		}
		w.Write([]byte("id\n1\n"))
	}))
	defer srv.Close()

	src := NewOriginSource(srv.URL, "tok-123", srv.Client())
	got, err := src.FetchCSV(context.Background())
	if err != nil {
		t.Fatalf("FetchCSV error: %v", err)
	}
	if got != "id\n1\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestStatusProbeLastSync(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lastSync": "2026-02-01T12:30:00Z"}`))
	}))
	defer srv.Close()

	probe := NewStatusProbe(srv.URL, srv.Client())
	ts, ok, err := probe.LastSync(context.Background())
	if err != nil {
		t.Fatalf("LastSync error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a timestamp to be present")
	}
	want := time.Date(2026, time.February, 1, 12, 30, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("lastSync = %v, want %v", ts, want)
	}
}

func TestStatusProbeAbsentField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	probe := NewStatusProbe(srv.URL, srv.Client())
	_, ok, err := probe.LastSync(context.Background())
	if err != nil {
		t.Fatalf("an absent field is not an error, got %v", err)
	}
	if ok {
		t.Fatalf("absent field must report ok=false")
	}
}

func TestStatusProbeBadTimestamp(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lastSync": "yesterday"}`))
	}))
	defer srv.Close()

	probe := NewStatusProbe(srv.URL, srv.Client())
	if _, _, err := probe.LastSync(context.Background()); err == nil {
		t.Fatalf("expected a parse error for a malformed timestamp")
	}
}
