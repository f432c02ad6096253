package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx as database/sql driver
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/api"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/auth"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/chread"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/storage"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Logger
	logger := mustBuildLogger(envOrDefault("EVAL_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("EVAL_HTTP_PORT", "8080")
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	postgresDSN := os.Getenv("POSTGRES_DSN")
	ingestionSecret := os.Getenv("INGESTION_API_SECRET")
	cacheTTL := envOrDefaultInt("EVAL_AUTH_CACHE_TTL_S", 30)

	logger.Info("starting eval server",
		zap.String("http_port", httpPort),
		zap.Bool("ingestion_secret_configured", ingestionSecret != ""),
	)
	if ingestionSecret == "" {
		// Ingestion stays disabled: the secret gate denies every request.
		logger.Warn("INGESTION_API_SECRET not set, ingestion endpoint will reject all requests")
	}

	// ClickHouse — evaluation rows and aggregation
	if clickhouseDSN == "" {
		logger.Fatal("CLICKHOUSE_DSN is required")
	}
	writer, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect clickhouse writer", zap.Error(err))
	}
	defer func() { _ = writer.Close() }()

	reader, err := chread.NewReader(clickhouseDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect clickhouse reader", zap.Error(err))
	}
	defer func() { _ = reader.Close() }()
	logger.Info("clickhouse connected")

	// Postgres — config rows and dashboard token verification
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}
	db, err := sql.Open("pgx", postgresDSN)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}
	pgStore := store.NewStore(db)
	logger.Info("postgres connected")

	verifier := auth.NewPostgresVerifier(auth.PostgresVerifierConfig{
		DB:       db,
		CacheTTL: time.Duration(cacheTTL) * time.Second,
		Logger:   logger,
	})

	deps := &api.Dependencies{
		Writer:   writer,
		Reader:   reader,
		Configs:  pgStore,
		Gate:     auth.NewSecretGate(ingestionSecret),
		Verifier: verifier,
		Logger:   logger,
	}

	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("eval server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
