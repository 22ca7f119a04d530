package get

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"fbwsupplies_sync/internal/supplies/business/models/dto/request"
	"fbwsupplies_sync/internal/supplies/business/models/dto/response"
	"fbwsupplies_sync/internal/supplies/business/services"
	"fbwsupplies_sync/metrics"
)

var testBackoffs = []time.Duration{0, time.Millisecond, time.Millisecond}

func testPlan() *services.SyncPlan {
	return &services.SyncPlan{
		DateStart: "2025-08-29T00:00:00+03:00",
		DateEnd:   "2026-08-29T18:30:45+03:00",
		Statuses:  []int{1, 2, 3, 4, 5, 6},
	}
}

func testAxis(t *testing.T) request.DateType {
	t.Helper()
	axis, err := request.ParseDateType("createDate", false)
	if err != nil {
		t.Fatalf("ParseDateType: %v", err)
	}
	return axis
}

func newTestService(url string) (*SupplyService, *metrics.SyncMetrics) {
	sm := &metrics.SyncMetrics{}
	svc := NewSupplyService(url, "test-token", sm).SetBackoffSchedule(testBackoffs)
	return svc, sm
}

func supplyPage(from, count int) []response.Supply {
	page := make([]response.Supply, count)
	for i := 0; i < count; i++ {
		id := from + i
		page[i] = response.Supply{SupplyID: &id, StatusID: 1}
	}
	return page
}

func TestFetchAxisPaginationExhaustion(t *testing.T) {
	// 2,5 страницы: 1000 + 1000 + 500, обход должен остановиться на третьей
	totals := []int{PageLimit, PageLimit, PageLimit / 2}
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-token" {
			t.Errorf("Authorization = %q, want test-token", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit != PageLimit {
			t.Errorf("limit = %d, want %d", limit, PageLimit)
		}

		pageIdx := offset / PageLimit
		if pageIdx >= len(totals) {
			t.Errorf("unexpected request for offset %d", offset)
			pageIdx = len(totals) - 1
		}
		requests++
		json.NewEncoder(w).Encode(supplyPage(offset, totals[pageIdx]))
	}))
	defer srv.Close()

	svc, sm := newTestService(srv.URL)
	rows, err := svc.FetchAxis(context.Background(), testPlan(), testAxis(t))
	if err != nil {
		t.Fatalf("FetchAxis: %v", err)
	}

	if want := PageLimit*2 + PageLimit/2; len(rows) != want {
		t.Fatalf("fetched %d rows, want %d", len(rows), want)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
	if got := sm.RequestCount.Load(); got != 3 {
		t.Errorf("RequestCount = %d, want 3", got)
	}

	// без пропусков и дублей между страницами
	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		if _, dup := seen[*row.SupplyID]; dup {
			t.Fatalf("duplicate supplyID %d across pages", *row.SupplyID)
		}
		seen[*row.SupplyID] = struct{}{}
	}
	for id := 0; id < PageLimit*2+PageLimit/2; id++ {
		if _, ok := seen[id]; !ok {
			t.Fatalf("gap in pagination: supplyID %d missing", id)
		}
	}
}

func TestFetchPageRetriesOn429(t *testing.T) {
	var statuses = []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK}
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[requests]
		requests++
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(supplyPage(0, 2))
	}))
	defer srv.Close()

	svc, _ := newTestService(srv.URL)
	rows, err := svc.fetchPage(context.Background(), 0, PageLimit, testPlan(), testAxis(t))
	if err != nil {
		t.Fatalf("fetchPage after [429, 429, 200]: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestFetchPageRetryExhausted(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc, _ := newTestService(srv.URL)
	_, err := svc.fetchPage(context.Background(), 0, PageLimit, testPlan(), testAxis(t))
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	if requests != len(testBackoffs) {
		t.Errorf("requests = %d, want %d", requests, len(testBackoffs))
	}
}

func TestFetchPageFatalOnOtherStatus(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal failure"))
	}))
	defer srv.Close()

	svc, _ := newTestService(srv.URL)
	_, err := svc.fetchPage(context.Background(), 0, PageLimit, testPlan(), testAxis(t))

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected ProtocolError, got %T: %v", err, err)
	}
	if protoErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", protoErr.StatusCode)
	}
	if !strings.Contains(protoErr.Body, "internal failure") {
		t.Errorf("Body = %q, must surface the response body", protoErr.Body)
	}
	if requests != 1 {
		t.Errorf("requests = %d, non-429 must not be retried", requests)
	}
}

func TestFetchPageFatalOnNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": ["token is invalid"]}`))
	}))
	defer srv.Close()

	svc, _ := newTestService(srv.URL)
	_, err := svc.fetchPage(context.Background(), 0, PageLimit, testPlan(), testAxis(t))

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected ProtocolError, got %T: %v", err, err)
	}
	if !strings.Contains(protoErr.Body, "token is invalid") {
		t.Errorf("Body = %q, must surface the unexpected payload", protoErr.Body)
	}
}

func TestFetchPageSendsWindowAndStatuses(t *testing.T) {
	var gotBody request.SuppliesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc, _ := newTestService(srv.URL)
	plan := testPlan()
	if _, err := svc.fetchPage(context.Background(), 0, PageLimit, plan, testAxis(t)); err != nil {
		t.Fatalf("fetchPage: %v", err)
	}

	if len(gotBody.Dates) != 1 {
		t.Fatalf("dates = %d, want 1", len(gotBody.Dates))
	}
	if gotBody.Dates[0].Start != plan.DateStart || gotBody.Dates[0].End != plan.DateEnd {
		t.Errorf("window = [%s, %s), want [%s, %s)",
			gotBody.Dates[0].Start, gotBody.Dates[0].End, plan.DateStart, plan.DateEnd)
	}
	if len(gotBody.StatusIDs) != 6 {
		t.Errorf("statusIDs = %v, want all six", gotBody.StatusIDs)
	}
}
