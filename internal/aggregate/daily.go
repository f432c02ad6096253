// Package aggregate derives per-day summary statistics from raw
// evaluation rows for chart display.
package aggregate

import (
	"sort"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
)

// DailyAggregate is one calendar day's summary. total_redactions is a sum,
// not an average — unlike the score and latency fields.
type DailyAggregate struct {
	Date            string  `json:"date"` // UTC, YYYY-MM-DD
	AvgScore        float64 `json:"avg_score"`
	AvgLatency      float64 `json:"avg_latency"`
	TotalRedactions uint64  `json:"total_redactions"`
	Count           int     `json:"count"`
}

type dailyAcc struct {
	count        int
	totalScore   float64
	totalLatency int64
	totalPII     uint64
}

// Daily buckets rows by the UTC date of created_at and returns one
// aggregate per distinct date, ascending by date. Empty input yields an
// empty result. Values are taken as stored: zero-valued score or
// latency_ms fields contribute zeros to the averages.
func Daily(rows []chread.TrendRow) []DailyAggregate {
	buckets := make(map[string]*dailyAcc)
	for _, row := range rows {
		date := row.CreatedAt.UTC().Format("2006-01-02")
		acc, ok := buckets[date]
		if !ok {
			acc = &dailyAcc{}
			buckets[date] = acc
		}
		acc.count++
		acc.totalScore += row.Score
		acc.totalLatency += row.LatencyMs
		acc.totalPII += uint64(row.PIITokensRedacted)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]DailyAggregate, 0, len(dates))
	for _, date := range dates {
		acc := buckets[date]
		out = append(out, DailyAggregate{
			Date:            date,
			AvgScore:        acc.totalScore / float64(acc.count),
			AvgLatency:      float64(acc.totalLatency) / float64(acc.count),
			TotalRedactions: acc.totalPII,
			Count:           acc.count,
		})
	}
	return out
}
