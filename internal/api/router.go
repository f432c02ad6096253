package api

import (
	"context"
	"net/http"
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/auth"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/storage"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
	"go.uber.org/zap"
)

// EvalReader is the read side of the persistence gateway, as the handlers
// see it. *chread.Reader implements it; tests use fakes.
type EvalReader interface {
	ListEvaluations(ctx context.Context, userID string, page, pageSize int) ([]chread.EvalRow, int, error)
	GetEvaluation(ctx context.Context, userID, id string) (*chread.EvalRow, error)
	TrendRows(ctx context.Context, userID string, from, to time.Time) ([]chread.TrendRow, error)
	QueryKPIs(ctx context.Context, userID string) (*chread.KPISnapshot, error)
}

// ConfigStore is the per-user config slice of the Postgres store.
type ConfigStore interface {
	GetConfig(ctx context.Context, userID string) (*store.EvalConfig, error)
	UpsertConfig(ctx context.Context, cfg *store.EvalConfig) (*store.EvalConfig, error)
}

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Writer   storage.EvaluationWriter
	Reader   EvalReader
	Configs  ConfigStore
	Gate     *auth.SecretGate
	Verifier auth.Verifier
	Logger   *zap.Logger
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Ingestion endpoint (shared-secret auth, high-privilege write path)
	mux.HandleFunc("POST /api/evals/ingest", deps.ingestAuthMiddleware(deps.handleIngest))

	// Read path for the dashboard view layer (bearer token auth)
	mux.HandleFunc("GET /api/evals", deps.sessionAuthMiddleware(deps.handleListEvals))
	mux.HandleFunc("GET /api/evals/{id}", deps.sessionAuthMiddleware(deps.handleGetEval))
	mux.HandleFunc("GET /api/dashboard/trends", deps.sessionAuthMiddleware(deps.handleTrends))
	mux.HandleFunc("GET /api/dashboard/kpis", deps.sessionAuthMiddleware(deps.handleKPIs))

	// Per-user evaluation config
	mux.HandleFunc("GET /api/config", deps.sessionAuthMiddleware(deps.handleGetConfig))
	mux.HandleFunc("PUT /api/config", deps.sessionAuthMiddleware(deps.handleUpsertConfig))

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
