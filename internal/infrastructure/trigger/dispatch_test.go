package trigger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWorkflowDispatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode dispatch payload: %v", err)
		}
		if payload["ref"] != "main" {
			t.Errorf("ref = %q, want main", payload["ref"])
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewWorkflowDispatch(srv.URL, "tok-123", "", srv.Client())
	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
}

func TestWorkflowDispatchErrorResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"ref not found"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	d := NewWorkflowDispatch(srv.URL, "tok-123", "gone", srv.Client())
	if err := d.Dispatch(context.Background()); err == nil {
		t.Fatalf("expected an error for a 422 response")
	}
}

func TestWorkflowDispatchMisconfigured(t *testing.T) {
	t.Parallel()

	d := NewWorkflowDispatch("", "", "main", nil)
	if err := d.Dispatch(context.Background()); err == nil {
		t.Fatalf("missing endpoint and token must be an error")
	}
}

func TestConsoleTriggerNeverFails(t *testing.T) {
	t.Parallel()

	c := NewConsoleTrigger("https://console.example.org/workflows/sync", nil)
	if err := c.Dispatch(context.Background()); err != nil {
		t.Fatalf("console trigger must not fail, got %v", err)
	}
}
