package api

import (
	"net/http"
	"strconv"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// handleListEvals implements GET /api/evals — one page of the caller's
// evaluations, newest first.
func (d *Dependencies) handleListEvals(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}

	q := r.URL.Query()
	page := queryInt(q, "page", 1)
	pageSize := queryInt(q, "page_size", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > 200 {
		pageSize = 200
	}

	evals, total, err := d.Reader.ListEvaluations(r.Context(), session.UserID, page, pageSize)
	if err != nil {
		d.Logger.Error("failed to list evaluations", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to list evaluations"})
		return
	}

	resp := EvalListResp{
		Evaluations: make([]EvalSummaryResp, 0, len(evals)),
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}
	for _, e := range evals {
		resp.Evaluations = append(resp.Evaluations, EvalSummaryResp{
			ID:                e.ID,
			InteractionID:     e.InteractionID,
			Score:             e.Score,
			LatencyMs:         e.LatencyMs,
			Flags:             e.Flags,
			PIITokensRedacted: e.PIITokensRedacted,
			CreatedAt:         e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGetEval implements GET /api/evals/{id}. When the caller's config
// sets obfuscate_pii, prompt and response text are masked before display.
func (d *Dependencies) handleGetEval(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}
	id := r.PathValue("id")

	ev, err := d.Reader.GetEvaluation(r.Context(), session.UserID, id)
	if err != nil {
		d.Logger.Error("failed to get evaluation", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to get evaluation"})
		return
	}
	if ev == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Error: "Evaluation record not found"})
		return
	}

	obfuscate := false
	cfg, err := d.Configs.GetConfig(r.Context(), session.UserID)
	if err != nil {
		d.Logger.Error("failed to get config for masking", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to load configuration"})
		return
	}
	if cfg != nil {
		obfuscate = cfg.ObfuscatePII
	}

	writeJSON(w, http.StatusOK, evalToDetailResp(ev, obfuscate))
}

func evalToDetailResp(e *chread.EvalRow, obfuscate bool) EvalDetailResp {
	prompt, response := e.Prompt, e.Response
	if obfuscate {
		prompt = MaskText(prompt)
		response = MaskText(response)
	}
	return EvalDetailResp{
		ID:                e.ID,
		UserID:            e.UserID,
		InteractionID:     e.InteractionID,
		Prompt:            prompt,
		Response:          response,
		Score:             e.Score,
		LatencyMs:         e.LatencyMs,
		Flags:             e.Flags,
		PIITokensRedacted: e.PIITokensRedacted,
		CreatedAt:         e.CreatedAt,
		PIIMasked:         obfuscate,
	}
}

func queryInt(q interface{ Get(string) string }, key string, defaultVal int) int {
	v := q.Get(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
