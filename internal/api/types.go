package api

import (
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/aggregate"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
)

// --- Ingestion ---

// IngestResp is the success body for POST /api/evals/ingest.
type IngestResp struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// --- Evaluations ---

// EvalSummaryResp is one row in the evaluation list. Prompt and response
// text are only returned by the detail endpoint.
type EvalSummaryResp struct {
	ID                string    `json:"id"`
	InteractionID     string    `json:"interaction_id"`
	Score             float64   `json:"score"`
	LatencyMs         int64     `json:"latency_ms"`
	Flags             []string  `json:"flags"`
	PIITokensRedacted uint32    `json:"pii_tokens_redacted"`
	CreatedAt         time.Time `json:"created_at"`
}

// EvalListResp is the paginated list body.
type EvalListResp struct {
	Evaluations []EvalSummaryResp `json:"evaluations"`
	Total       int               `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

// EvalDetailResp is the full single-evaluation body. When the owner's
// config sets obfuscate_pii, prompt and response are masked and
// PIIMasked is true.
type EvalDetailResp struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	InteractionID     string    `json:"interaction_id"`
	Prompt            string    `json:"prompt"`
	Response          string    `json:"response"`
	Score             float64   `json:"score"`
	LatencyMs         int64     `json:"latency_ms"`
	Flags             []string  `json:"flags"`
	PIITokensRedacted uint32    `json:"pii_tokens_redacted"`
	CreatedAt         time.Time `json:"created_at"`
	PIIMasked         bool      `json:"pii_masked"`
}

// --- Dashboard ---

// TrendsResp is the daily trend series for the chart view.
type TrendsResp struct {
	Trends []aggregate.DailyAggregate `json:"trends"`
	Days   int                        `json:"days"`
}

// KPIResp wraps the headline snapshot.
type KPIResp struct {
	KPIs *chread.KPISnapshot `json:"kpis"`
}

// --- Config ---

// UpsertConfigReq is the JSON body for PUT /api/config.
type UpsertConfigReq struct {
	RunPolicy     string `json:"run_policy"`
	SampleRatePct int    `json:"sample_rate_pct"`
	ObfuscatePII  bool   `json:"obfuscate_pii"`
	MaxEvalPerDay int    `json:"max_eval_per_day"`
}

// ErrorResp is a standard error response body. Details carries the
// storage-layer message on 500s.
type ErrorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
