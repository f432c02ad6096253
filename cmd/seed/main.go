package main

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx as database/sql driver
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/seed"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/storage"
	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	userID := os.Getenv("SEED_USER_ID")
	if userID == "" {
		logger.Fatal("SEED_USER_ID is required")
	}
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	if clickhouseDSN == "" {
		logger.Fatal("CLICKHOUSE_DSN is required")
	}
	postgresDSN := os.Getenv("POSTGRES_DSN")
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}

	opts := seed.DefaultOptions(userID)
	if v := os.Getenv("SEED_TOTAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Total = n
		}
	}

	writer, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect clickhouse", zap.Error(err))
	}
	defer func() { _ = writer.Close() }()

	db, err := sql.Open("pgx", postgresDSN)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}

	logger.Info("starting seed run",
		zap.String("user_id", userID),
		zap.Int("total", opts.Total),
		zap.Int("batch_size", opts.BatchSize),
		zap.Int("days", opts.Days),
	)

	gen := seed.NewGenerator(rand.NewSource(time.Now().UnixNano()))
	inserted, err := seed.Run(context.Background(), writer, store.NewStore(db), gen, opts, logger)
	if err != nil {
		// Fail-fast: the partially-seeded state is left as-is.
		logger.Fatal("seed run failed",
			zap.Int("rows_inserted", inserted),
			zap.Error(err),
		)
	}

	logger.Info("seed run complete", zap.Int("rows_inserted", inserted))
}
