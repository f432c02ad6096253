package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const insertColumns = `
	INSERT INTO evaluations (
		id, user_id, interaction_id, prompt, response,
		score, latency_ms, flags, pii_tokens_redacted, created_at
	)`

// ClickHouseWriter writes evaluation rows to the evaluations table.
// All inserts are synchronous — callers see storage failures directly.
type ClickHouseWriter struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewClickHouseWriter opens a ClickHouse connection for writes.
func NewClickHouseWriter(dsn string, logger *zap.Logger) (*ClickHouseWriter, error) {
	conn, err := openConn(dsn)
	if err != nil {
		return nil, fmt.Errorf("NewClickHouseWriter: %w", err)
	}
	return &ClickHouseWriter{conn: conn, logger: logger}, nil
}

// openConn parses a DSN and opens a verified ClickHouse connection.
// ParseDSN sets TLS when ?secure=true is in the DSN; we enforce it here as
// a safety net to match ClickHouse Cloud's official Go connection example.
func openConn(dsn string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}
	return conn, nil
}

// InsertEvaluation inserts a single evaluation row and returns its id.
// The id is generated here; ClickHouse has no insert-returning.
func (w *ClickHouseWriter) InsertEvaluation(ctx context.Context, ev *Evaluation) (string, error) {
	batch, err := w.conn.PrepareBatch(ctx, insertColumns)
	if err != nil {
		return "", fmt.Errorf("InsertEvaluation prepare: %w", err)
	}

	id := uuid.New().String()
	if err := appendRow(batch, id, ev); err != nil {
		return "", fmt.Errorf("InsertEvaluation append: %w", err)
	}
	if err := batch.Send(); err != nil {
		return "", fmt.Errorf("InsertEvaluation send: %w", err)
	}
	return id, nil
}

// InsertEvaluationBatch inserts a batch of evaluations in one call.
// All-or-nothing: if the batch fails nothing in it is considered stored,
// and no retry is attempted here.
func (w *ClickHouseWriter) InsertEvaluationBatch(ctx context.Context, evs []*Evaluation) error {
	if len(evs) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, insertColumns)
	if err != nil {
		return fmt.Errorf("InsertEvaluationBatch prepare: %w", err)
	}
	for _, ev := range evs {
		id := ev.ID
		if id == "" {
			id = uuid.New().String()
		}
		if err := appendRow(batch, id, ev); err != nil {
			return fmt.Errorf("InsertEvaluationBatch append: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("InsertEvaluationBatch send: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}

// appendRow appends one evaluation to a prepared batch.
// A columnar batch cannot omit per-row values, so the created_at column
// default is applied here when the caller left it unset.
func appendRow(batch driver.Batch, id string, ev *Evaluation) error {
	createdAt := time.Now().UTC()
	if ev.CreatedAt != nil {
		createdAt = *ev.CreatedAt
	}

	return batch.Append(
		id,
		ev.UserID,
		ev.InteractionID,
		ev.Prompt,
		ev.Response,
		ev.Score,
		ev.LatencyMs,
		ev.Flags,
		ev.PIITokensRedacted,
		createdAt,
	)
}
