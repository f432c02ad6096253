package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run policies. "sampled" makes sample_rate_pct meaningful.
const (
	RunPolicyAlways  = "always"
	RunPolicySampled = "sampled"
)

// EvalConfig is one user's evaluation settings, unique by user_id.
// The settings are advisory: downstream producers of evaluation events are
// expected to honor them; nothing here enforces the cap or the sampling.
type EvalConfig struct {
	UserID        string    `json:"user_id"`
	RunPolicy     string    `json:"run_policy"`
	SampleRatePct int       `json:"sample_rate_pct"`
	ObfuscatePII  bool      `json:"obfuscate_pii"`
	MaxEvalPerDay int       `json:"max_eval_per_day"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultConfig returns the settings applied whenever no stored config
// exists for a user.
func DefaultConfig(userID string) *EvalConfig {
	return &EvalConfig{
		UserID:        userID,
		RunPolicy:     RunPolicyAlways,
		SampleRatePct: 100,
		ObfuscatePII:  false,
		MaxEvalPerDay: 1000,
	}
}

// GetConfig returns a user's stored config, or nil if none exists yet.
// Callers substitute DefaultConfig for the nil case.
func (s *Store) GetConfig(ctx context.Context, userID string) (*EvalConfig, error) {
	var c EvalConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, run_policy, sample_rate_pct, obfuscate_pii,
		       max_eval_per_day, updated_at
		FROM evaluation_configs WHERE user_id = $1`, userID,
	).Scan(&c.UserID, &c.RunPolicy, &c.SampleRatePct, &c.ObfuscatePII,
		&c.MaxEvalPerDay, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetConfig: %w", err)
	}
	return &c, nil
}

// UpsertConfig inserts or replaces a user's config, keyed by user_id.
// Upsert-only lifecycle: created on first save, overwritten afterwards,
// never multiplied.
func (s *Store) UpsertConfig(ctx context.Context, cfg *EvalConfig) (*EvalConfig, error) {
	var c EvalConfig
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO evaluation_configs
			(user_id, run_policy, sample_rate_pct, obfuscate_pii, max_eval_per_day)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			run_policy       = EXCLUDED.run_policy,
			sample_rate_pct  = EXCLUDED.sample_rate_pct,
			obfuscate_pii    = EXCLUDED.obfuscate_pii,
			max_eval_per_day = EXCLUDED.max_eval_per_day,
			updated_at       = now()
		RETURNING user_id, run_policy, sample_rate_pct, obfuscate_pii,
		          max_eval_per_day, updated_at`,
		cfg.UserID, cfg.RunPolicy, cfg.SampleRatePct, cfg.ObfuscatePII, cfg.MaxEvalPerDay,
	).Scan(&c.UserID, &c.RunPolicy, &c.SampleRatePct, &c.ObfuscatePII,
		&c.MaxEvalPerDay, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("UpsertConfig: %w", err)
	}
	return &c, nil
}
