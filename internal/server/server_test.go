package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EvalsDashboard/internal/domain"
	"EvalsDashboard/internal/poller"
	"EvalsDashboard/internal/revenue"
	"EvalsDashboard/internal/syncer"
)

type staticSource struct{ text string }

func (s *staticSource) FetchCSV(ctx context.Context) (string, error) {
	return s.text, nil
}

const testCSV = "id,title,paper_url,data_url,data_accession,kit,engineer,reviewer,status,count,notes,created_at,submitted_at,done_at\n" +
	"1,First,,,GSE000001,xenium,Mara,,accepted,,,2026-01-01,2026-01-13,2026-01-14\n" +
	"2,Second,,,GSE000002,visium,Tomas,,qc,,,2026-01-01,2026-01-14,\n" +
	"3,Third,,,GSE000003,visium,Mara,,rejected,,,2026-01-01,2026-01-15,2026-01-16\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	svc := syncer.NewService(&staticSource{text: testCSV}, syncer.NewStore(), nil)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	anchor := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	return New(Deps{
		Sync:     svc,
		Poller:   poller.New(nil, nil, nil, poller.DefaultIntervals(), nil),
		Revenue:  revenue.NewCalculator(anchor, 500),
		Orders:   []domain.Order{{ID: 1, Client: "Meridian Labs", OrderName: "MER-01", ProblemCount: 10, Completed: true}},
		Password: "sesame",
	})
}

func doRequest(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server) string {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", `{"password":"sesame"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatalf("login returned an empty token")
	}
	return payload.Token
}

func TestHealthIsOpen(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", `{"password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/auth/login", "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", rec.Code)
	}
}

func TestAuthGate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	if rec := doRequest(t, s, http.MethodGet, "/api/problems", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/problems", "not-a-jwt", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", rec.Code)
	}

	token := login(t, s)
	if rec := doRequest(t, s, http.MethodGet, "/api/problems", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestProblemsStatusFilter(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/problems?status=accepted", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d", rec.Code)
	}
	var payload struct {
		Count    int              `json:"count"`
		Problems []domain.Problem `json:"problems"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode problems: %v", err)
	}
	if payload.Count != 1 || payload.Problems[0].Status != domain.StatusAccepted {
		t.Fatalf("unexpected filtered payload: %+v", payload)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/problems?status=bogus", token, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus filter status = %d", rec.Code)
	}
}

func TestEngineersSorting(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/engineers?sort=name&dir=asc", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("engineers status = %d", rec.Code)
	}
	var payload struct {
		Engineers []domain.Engineer `json:"engineers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode engineers: %v", err)
	}
	if len(payload.Engineers) != 2 {
		t.Fatalf("expected 2 engineers, got %d", len(payload.Engineers))
	}
	if payload.Engineers[0].Name != "Mara" || payload.Engineers[1].Name != "Tomas" {
		t.Fatalf("unexpected name order: %+v", payload.Engineers)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/engineers?sort=height", token, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown sort field status = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/engineers?dir=sideways", token, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown dir status = %d", rec.Code)
	}
}

func TestOrdersTotals(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/orders", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("orders status = %d", rec.Code)
	}
	var payload struct {
		Count             int `json:"count"`
		TotalProblems     int `json:"totalProblems"`
		DeliveredOrders   int `json:"deliveredOrders"`
		DeliveredProblems int `json:"deliveredProblems"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if payload.Count != 1 || payload.TotalProblems != 10 || payload.DeliveredOrders != 1 || payload.DeliveredProblems != 10 {
		t.Fatalf("unexpected totals: %+v", payload)
	}
}

func TestRevenueEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/revenue", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("revenue status = %d", rec.Code)
	}
	var payload revenue.Estimate
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode revenue: %v", err)
	}
	if payload.WeekNumber < 1 {
		t.Fatalf("week number = %d, want >= 1", payload.WeekNumber)
	}
	if payload.AnnualRunRate != payload.WeeklyRevenue*52 {
		t.Fatalf("annual run rate %d is not 52x weekly %d", payload.AnnualRunRate, payload.WeeklyRevenue)
	}
}

func TestSyncStateBeforeFirstProbe(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/sync", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync state status = %d", rec.Code)
	}
	var payload struct {
		SyncedAgo string          `json:"syncedAgo"`
		IsSyncing bool            `json:"isSyncing"`
		PollMode  domain.PollMode `json:"pollMode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode sync state: %v", err)
	}
	if payload.SyncedAgo != "checking..." {
		t.Fatalf("syncedAgo = %q before the first probe", payload.SyncedAgo)
	}
	if payload.PollMode != domain.PollModeNormal {
		t.Fatalf("poll mode = %q, want normal", payload.PollMode)
	}
}

func TestSyncTrigger(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := login(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/sync", token, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("sync trigger status = %d", rec.Code)
	}
	var payload struct {
		Dispatched bool `json:"dispatched"`
		State      struct {
			IsSyncing bool            `json:"isSyncing"`
			PollMode  domain.PollMode `json:"pollMode"`
		} `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode trigger response: %v", err)
	}
	if !payload.Dispatched {
		t.Fatalf("a nil trigger should count as dispatched")
	}
	if !payload.State.IsSyncing || payload.State.PollMode != domain.PollModeFast {
		t.Fatalf("unexpected state after trigger: %+v", payload.State)
	}
}
