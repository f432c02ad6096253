// Package seed generates synthetic evaluation history for one user — an
// offline, one-shot workflow for populating a fresh deployment.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/storage"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
	"go.uber.org/zap"
)

// ConfigEnsurer is the slice of the config store the seeder needs.
type ConfigEnsurer interface {
	UpsertConfig(ctx context.Context, cfg *store.EvalConfig) (*store.EvalConfig, error)
}

// Options controls a seeding run.
type Options struct {
	UserID    string
	Total     int // rows to generate
	BatchSize int // rows per insert call
	Days      int // history window ending now
}

// DefaultOptions mirrors the standard seed profile: 20k rows over 30 days
// in batches of 1000.
func DefaultOptions(userID string) Options {
	return Options{
		UserID:    userID,
		Total:     20000,
		BatchSize: 1000,
		Days:      30,
	}
}

// Generator produces random evaluation rows. The random source is
// injected so tests can be deterministic.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator over the given source.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Evaluation generates one synthetic row for the user: score in
// [0.5, 1.0], latency 50–2000ms, up to two flags from the controlled
// vocabulary, and a redaction count only when "pii_found" was drawn.
func (g *Generator) Evaluation(userID string, from, to time.Time) *storage.Evaluation {
	score := 0.5 + g.rng.Float64()*0.5
	latency := int64(50 + g.rng.Intn(1951))
	flags := g.pickFlags()

	var redacted uint32
	for _, f := range flags {
		if f == "pii_found" {
			redacted = uint32(1 + g.rng.Intn(10))
			break
		}
	}

	window := to.Sub(from)
	createdAt := from.Add(time.Duration(g.rng.Int63n(int64(window))))

	return &storage.Evaluation{
		UserID:            userID,
		InteractionID:     uuid.New().String(),
		Prompt:            fmt.Sprintf("Synthetic agent prompt %d for load testing the dashboard.", g.rng.Intn(100000)),
		Response:          fmt.Sprintf("Synthetic agent response %d.", g.rng.Intn(100000)),
		Score:             score,
		LatencyMs:         latency,
		Flags:             flags,
		PIITokensRedacted: redacted,
		CreatedAt:         &createdAt,
	}
}

// pickFlags draws 0–2 distinct flags from the vocabulary.
func (g *Generator) pickFlags() []string {
	n := g.rng.Intn(3)
	perm := g.rng.Perm(len(storage.KnownFlags))
	flags := make([]string, 0, n)
	for _, idx := range perm[:n] {
		flags = append(flags, storage.KnownFlags[idx])
	}
	return flags
}

// Run seeds opts.Total evaluations for opts.UserID.
//
// It first ensures the user's config row exists (upsert of defaults), then
// inserts strictly sequential batches of opts.BatchSize. The run stops at
// the first failing batch — the failure is surfaced, not retried, and the
// partially-seeded state is left as-is. Returns the number of rows
// actually inserted.
func Run(ctx context.Context, writer storage.EvaluationWriter, configs ConfigEnsurer,
	gen *Generator, opts Options, logger *zap.Logger) (int, error) {

	if _, err := configs.UpsertConfig(ctx, store.DefaultConfig(opts.UserID)); err != nil {
		return 0, fmt.Errorf("seed: ensure config: %w", err)
	}

	now := time.Now().UTC()
	from := now.Add(-time.Duration(opts.Days) * 24 * time.Hour)

	inserted := 0
	for inserted < opts.Total {
		size := opts.BatchSize
		if remaining := opts.Total - inserted; remaining < size {
			size = remaining
		}

		batch := make([]*storage.Evaluation, size)
		for i := range batch {
			batch[i] = gen.Evaluation(opts.UserID, from, now)
		}

		if err := writer.InsertEvaluationBatch(ctx, batch); err != nil {
			return inserted, fmt.Errorf("seed: batch at offset %d failed: %w", inserted, err)
		}
		inserted += size

		logger.Info("seed batch inserted",
			zap.Int("batch_size", size),
			zap.Int("total_inserted", inserted),
		)
	}

	return inserted, nil
}
