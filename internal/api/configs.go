package api

import (
	"net/http"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
	"go.uber.org/zap"
)

// handleGetConfig implements GET /api/config. When no row exists yet the
// defaults are returned — the store's not-found is a normal empty state.
func (d *Dependencies) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}

	cfg, err := d.Configs.GetConfig(r.Context(), session.UserID)
	if err != nil {
		d.Logger.Error("failed to get config", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to load configuration"})
		return
	}
	if cfg == nil {
		cfg = store.DefaultConfig(session.UserID)
	}

	writeJSON(w, http.StatusOK, cfg)
}

// handleUpsertConfig implements PUT /api/config — insert-or-replace keyed
// by the session's user_id.
func (d *Dependencies) handleUpsertConfig(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}

	var req UpsertConfigReq
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON payload"})
		return
	}

	if req.RunPolicy != store.RunPolicyAlways && req.RunPolicy != store.RunPolicySampled {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "run_policy must be 'always' or 'sampled'"})
		return
	}
	if req.SampleRatePct < 0 || req.SampleRatePct > 100 {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "sample_rate_pct must be between 0 and 100"})
		return
	}
	if req.MaxEvalPerDay < 1 {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "max_eval_per_day must be positive"})
		return
	}

	saved, err := d.Configs.UpsertConfig(r.Context(), &store.EvalConfig{
		UserID:        session.UserID,
		RunPolicy:     req.RunPolicy,
		SampleRatePct: req.SampleRatePct,
		ObfuscatePII:  req.ObfuscatePII,
		MaxEvalPerDay: req.MaxEvalPerDay,
	})
	if err != nil {
		d.Logger.Error("failed to upsert config", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to save configuration"})
		return
	}

	writeJSON(w, http.StatusOK, saved)
}
