package ingest

import (
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/storage"
)

// Normalize maps a validated payload to its canonical storage shape.
//
// Fills: flags → empty slice when absent, pii_tokens_redacted → 0 when
// absent. created_at is passed through untouched — when the caller omits
// it, the storage layer's column default decides, not this function.
// Idempotent on already-canonical input.
func Normalize(p *Payload) *storage.Evaluation {
	flags := p.Flags
	if flags == nil {
		flags = []string{}
	}

	var redacted uint32
	if p.PIITokensRedacted != nil {
		redacted = *p.PIITokensRedacted
	}

	var createdAt *time.Time
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		createdAt = &t
	}

	return &storage.Evaluation{
		InteractionID:     p.InteractionID,
		UserID:            p.UserID,
		Prompt:            p.Prompt,
		Response:          p.Response,
		Score:             *p.Score,
		LatencyMs:         p.LatencyMs,
		Flags:             flags,
		PIITokensRedacted: redacted,
		CreatedAt:         createdAt,
	}
}
