package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/auth"
	"go.uber.org/zap"
)

// IngestSecretHeader carries the shared ingestion credential.
const IngestSecretHeader = "X-Ingestion-Secret"

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey int

const sessionCtxKey contextKey = iota

// sessionFromContext extracts the verified session from the request context.
func sessionFromContext(ctx context.Context) *auth.Session {
	v, _ := ctx.Value(sessionCtxKey).(*auth.Session)
	return v
}

// ingestAuthMiddleware gates the write path behind the shared ingestion
// secret. The check runs before any body parsing or storage access.
func (d *Dependencies) ingestAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Gate.Authorize(r.Header.Get(IngestSecretHeader)); err != nil {
			writeJSON(w, http.StatusUnauthorized, ErrorResp{Error: "Unauthorized: Invalid Ingestion Secret"})
			return
		}
		next(w, r)
	}
}

// sessionAuthMiddleware gates the read path behind dashboard bearer tokens
// and injects the verified session into the request context. Session
// issuance and refresh live in the external identity provider — this layer
// only calls the verifier before dispatch.
func (d *Dependencies) sessionAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, ErrorResp{Error: "Missing or invalid Authorization header"})
			return
		}

		session, err := d.Verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrAuthUnavailable) {
				d.Logger.Error("session verification unavailable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, ErrorResp{Error: "Authentication backend unavailable"})
				return
			}
			writeJSON(w, http.StatusUnauthorized, ErrorResp{Error: "Invalid dashboard token"})
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey, session)
		next(w, r.WithContext(ctx))
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// --- JSON helpers ---

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// readJSON decodes a JSON request body into the given pointer.
func readJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Request logging ---

func requestLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// --- CORS ---

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+IngestSecretHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
