package ingest

import (
	"strings"
	"time"
)

// Payload is the decoded body of an ingestion request, before validation.
// Score is a pointer so that an explicit 0 is distinguishable from absent.
type Payload struct {
	InteractionID     string     `json:"interaction_id"`
	UserID            string     `json:"user_id"`
	Prompt            string     `json:"prompt"`
	Response          string     `json:"response"`
	Score             *float64   `json:"score"`
	LatencyMs         int64      `json:"latency_ms"`
	Flags             []string   `json:"flags"`
	PIITokensRedacted *uint32    `json:"pii_tokens_redacted"`
	CreatedAt         *time.Time `json:"created_at"`
}

// ValidationError reports the required fields missing from a payload.
// It is distinct from a JSON decode failure, which the HTTP layer detects
// before validation runs.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.MissingFields, ", ")
}

// Validate checks that the required fields are present: user_id,
// interaction_id and score. A score of exactly 0 is valid. All other
// fields are optional at this layer — no range checks on score or
// latency_ms.
func Validate(p *Payload) error {
	var missing []string
	if p.UserID == "" {
		missing = append(missing, "user_id")
	}
	if p.InteractionID == "" {
		missing = append(missing, "interaction_id")
	}
	if p.Score == nil {
		missing = append(missing, "score")
	}
	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}
