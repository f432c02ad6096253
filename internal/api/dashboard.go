package api

import (
	"net/http"
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/aggregate"
	"go.uber.org/zap"
)

// handleTrends implements GET /api/dashboard/trends — the daily aggregate
// series the chart view renders. Raw rows come back ascending by
// created_at; the bucketing happens here, not in the database.
func (d *Dependencies) handleTrends(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}

	days := queryInt(r.URL.Query(), "days", 30)
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}

	to := time.Now().UTC()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)

	rows, err := d.Reader.TrendRows(r.Context(), session.UserID, from, to)
	if err != nil {
		d.Logger.Error("failed to query trend rows", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to load trends"})
		return
	}

	trends := aggregate.Daily(rows)
	writeJSON(w, http.StatusOK, TrendsResp{Trends: trends, Days: days})
}

// handleKPIs implements GET /api/dashboard/kpis. A user with no
// evaluations yet is a normal empty state (404), not a storage error.
func (d *Dependencies) handleKPIs(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "missing session context"})
		return
	}

	kpis, err := d.Reader.QueryKPIs(r.Context(), session.UserID)
	if err != nil {
		d.Logger.Error("failed to query kpis", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to load KPIs"})
		return
	}
	if kpis == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Error: "No evaluations recorded yet"})
		return
	}

	writeJSON(w, http.StatusOK, KPIResp{KPIs: kpis})
}
