package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
)

func TestTrends_DailySeries(t *testing.T) {
	d := newTestDeps(t)
	d1 := time.Date(2026, 8, 9, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	d.reader.trend = []chread.TrendRow{
		{CreatedAt: d1, Score: 0.8, LatencyMs: 100, PIITokensRedacted: 2},
		{CreatedAt: d1.Add(time.Hour), Score: 0.9, LatencyMs: 300},
		{CreatedAt: d2, Score: 0.7, LatencyMs: 400, PIITokensRedacted: 1},
	}

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/dashboard/trends", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TrendsResp
	decodeBody(t, rec, &resp)
	if resp.Days != 30 {
		t.Errorf("expected default window 30 days, got %d", resp.Days)
	}
	if len(resp.Trends) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(resp.Trends))
	}
	first := resp.Trends[0]
	if first.Date != "2026-08-09" || first.AvgScore != 0.85 || first.AvgLatency != 200 || first.TotalRedactions != 2 {
		t.Errorf("unexpected first bucket: %+v", first)
	}
	if resp.Trends[1].Date != "2026-08-10" {
		t.Errorf("buckets must be ascending by date, got %s second", resp.Trends[1].Date)
	}
}

func TestTrends_DaysClamped(t *testing.T) {
	d := newTestDeps(t)

	tests := []struct {
		name   string
		target string
		days   int
	}{
		{"default", "/api/dashboard/trends", 30},
		{"explicit", "/api/dashboard/trends?days=7", 7},
		{"too small", "/api/dashboard/trends?days=0", 1},
		{"too large", "/api/dashboard/trends?days=365", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := d.doRequest(authedRequest(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp TrendsResp
			decodeBody(t, rec, &resp)
			if resp.Days != tt.days {
				t.Errorf("expected days %d, got %d", tt.days, resp.Days)
			}
		})
	}
}

func TestTrends_EmptyWindow(t *testing.T) {
	d := newTestDeps(t)

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/dashboard/trends", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty window, got %d", rec.Code)
	}
	var resp TrendsResp
	decodeBody(t, rec, &resp)
	if len(resp.Trends) != 0 {
		t.Errorf("expected empty series, got %v", resp.Trends)
	}
}

func TestKPIs_Snapshot(t *testing.T) {
	d := newTestDeps(t)
	d.reader.kpis = &chread.KPISnapshot{
		OverallSuccessRate: 0.91,
		AvgLatency30d:      423.5,
		TotalRedactions7d:  17,
		AvgScore7d:         0.88,
		TotalEvaluations:   1200,
	}

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/dashboard/kpis", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp KPIResp
	decodeBody(t, rec, &resp)
	if resp.KPIs == nil {
		t.Fatal("expected kpis in body")
	}
	if resp.KPIs.OverallSuccessRate != 0.91 || resp.KPIs.TotalEvaluations != 1200 {
		t.Errorf("unexpected snapshot: %+v", resp.KPIs)
	}
}

func TestKPIs_NoEvaluationsYet(t *testing.T) {
	d := newTestDeps(t)
	// reader.kpis stays nil — the no-rows empty state

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/dashboard/kpis", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty account, got %d", rec.Code)
	}
	var resp ErrorResp
	decodeBody(t, rec, &resp)
	if resp.Error != "No evaluations recorded yet" {
		t.Errorf("unexpected error body: %q", resp.Error)
	}
}

func TestKPIs_StorageError(t *testing.T) {
	d := newTestDeps(t)
	d.reader.err = errors.New("clickhouse unreachable")

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/dashboard/kpis", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for storage failure, got %d", rec.Code)
	}
}
