package api

import (
	"net/http"
	"strings"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/ingest"
	"go.uber.org/zap"
)

// handleIngest implements POST /api/evals/ingest.
// The secret middleware has already authorized the request; the asserted
// user_id in the body is trusted because this path is gated by the
// high-privilege secret, not the owner's own session.
func (d *Dependencies) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload ingest.Payload
	if err := readJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON payload"})
		return
	}

	if err := ingest.Validate(&payload); err != nil {
		ve := err.(*ingest.ValidationError)
		writeJSON(w, http.StatusBadRequest, ErrorResp{
			Error: "Missing required fields: " + strings.Join(ve.MissingFields, ", "),
		})
		return
	}

	ev := ingest.Normalize(&payload)

	id, err := d.Writer.InsertEvaluation(r.Context(), ev)
	if err != nil {
		d.Logger.Error("evaluation insert failed",
			zap.String("user_id", ev.UserID),
			zap.String("interaction_id", ev.InteractionID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResp{
			Error:   "Database insertion failed",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, IngestResp{Status: "success", ID: id})
}
