package aggregate

import (
	"testing"
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
)

func row(ts time.Time, score float64, latency int64, redacted uint32) chread.TrendRow {
	return chread.TrendRow{
		CreatedAt:         ts,
		Score:             score,
		LatencyMs:         latency,
		PIITokensRedacted: redacted,
	}
}

func TestDaily_EmptyInput(t *testing.T) {
	out := Daily(nil)
	if len(out) != 0 {
		t.Errorf("expected empty result for empty input, got %v", out)
	}
}

func TestDaily_SingleDayAverages(t *testing.T) {
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	rows := []chread.TrendRow{
		row(day.Add(2*time.Hour), 0.8, 100, 2),
		row(day.Add(14*time.Hour), 0.9, 300, 0),
	}

	out := Daily(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}

	agg := out[0]
	if agg.Date != "2026-08-10" {
		t.Errorf("expected date 2026-08-10, got %s", agg.Date)
	}
	if agg.AvgScore != 0.85 {
		t.Errorf("expected avg_score 0.85, got %v", agg.AvgScore)
	}
	if agg.AvgLatency != 200 {
		t.Errorf("expected avg_latency 200, got %v", agg.AvgLatency)
	}
	if agg.TotalRedactions != 2 {
		t.Errorf("expected total_redactions 2 (sum, not average), got %d", agg.TotalRedactions)
	}
	if agg.Count != 2 {
		t.Errorf("expected count 2, got %d", agg.Count)
	}
}

func TestDaily_MultipleDaysAscending(t *testing.T) {
	d1 := time.Date(2026, 8, 9, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 10, 1, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 11, 12, 0, 0, 0, time.UTC)

	// Deliberately out of order: bucketing must not depend on input order.
	rows := []chread.TrendRow{
		row(d3, 0.7, 400, 1),
		row(d1, 0.9, 100, 0),
		row(d2, 0.8, 200, 5),
	}

	out := Daily(rows)
	if len(out) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(out))
	}
	want := []string{"2026-08-09", "2026-08-10", "2026-08-11"}
	for i, date := range want {
		if out[i].Date != date {
			t.Errorf("bucket %d: expected date %s, got %s", i, date, out[i].Date)
		}
		if out[i].Count != 1 {
			t.Errorf("bucket %d: expected count 1, got %d", i, out[i].Count)
		}
	}
}

func TestDaily_UTCBucketing(t *testing.T) {
	// 23:30 in UTC-2 is 01:30 UTC the next day — bucketing must use UTC.
	loc := time.FixedZone("UTC-2", -2*3600)
	rows := []chread.TrendRow{
		row(time.Date(2026, 8, 9, 23, 30, 0, 0, loc), 0.5, 100, 0),
	}

	out := Daily(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}
	if out[0].Date != "2026-08-10" {
		t.Errorf("expected UTC date 2026-08-10, got %s", out[0].Date)
	}
}

func TestDaily_ZeroValuesContribute(t *testing.T) {
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	rows := []chread.TrendRow{
		row(day, 1.0, 200, 0),
		row(day, 0, 0, 0), // zeros pull the averages down, they are not skipped
	}

	out := Daily(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(out))
	}
	if out[0].AvgScore != 0.5 {
		t.Errorf("expected avg_score 0.5, got %v", out[0].AvgScore)
	}
	if out[0].AvgLatency != 100 {
		t.Errorf("expected avg_latency 100, got %v", out[0].AvgLatency)
	}
}
