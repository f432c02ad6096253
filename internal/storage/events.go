package storage

import (
	"context"
	"time"
)

// Evaluation is the canonical storage shape of one scored agent interaction.
type Evaluation struct {
	ID                string
	InteractionID     string
	UserID            string
	Prompt            string
	Response          string
	Score             float64
	LatencyMs         int64
	Flags             []string
	PIITokensRedacted uint32
	// CreatedAt is caller-supplied. Nil means the caller omitted it and the
	// storage column default applies.
	CreatedAt *time.Time
}

// KnownFlags is the controlled vocabulary seen in evaluation flags.
// Callers may send other values; nothing here rejects them.
var KnownFlags = []string{"safe", "low_confidence", "hallucination", "safety_violation", "pii_found"}

// EvaluationWriter persists evaluation rows.
//
// InsertEvaluation is synchronous — ingestion reports storage failures to
// the caller, so the write must complete or fail before the response.
// InsertEvaluationBatch is all-or-nothing per call and never retries; the
// seeding workflow stops at the first failing batch.
type EvaluationWriter interface {
	InsertEvaluation(ctx context.Context, ev *Evaluation) (string, error)
	InsertEvaluationBatch(ctx context.Context, evs []*Evaluation) error
	Close() error
}
