package chread

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// Reader provides read access to the ClickHouse evaluations table.
// Every query is restricted server-side to a single owning user.
type Reader struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewReader opens a ClickHouse connection for read queries.
func NewReader(dsn string, logger *zap.Logger) (*Reader, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}

	return &Reader{conn: conn, logger: logger}, nil
}

// Close closes the ClickHouse connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// EvalRow is a full row from the evaluations table.
type EvalRow struct {
	ID                string
	UserID            string
	InteractionID     string
	Prompt            string
	Response          string
	Score             float64
	LatencyMs         int64
	Flags             []string
	PIITokensRedacted uint32
	CreatedAt         time.Time
}

// TrendRow carries the trend columns only — what the daily aggregator needs.
type TrendRow struct {
	CreatedAt         time.Time
	Score             float64
	LatencyMs         int64
	PIITokensRedacted uint32
}

// KPISnapshot is the single-row headline aggregation for one user.
// Field windows mirror the dashboard cards: overall score average, 30-day
// latency, 7-day redactions and score.
type KPISnapshot struct {
	OverallSuccessRate float64 `json:"overall_success_rate"`
	AvgLatency30d      float64 `json:"avg_latency_30d"`
	TotalRedactions7d  uint64  `json:"total_redactions_7d"`
	AvgScore7d         float64 `json:"avg_score_7d"`
	TotalEvaluations   uint64  `json:"total_evaluations"`
}

const evalColumns = "id, user_id, interaction_id, prompt, response, " +
	"score, latency_ms, flags, pii_tokens_redacted, created_at"

// ListEvaluations returns one page of a user's evaluations, newest first,
// plus the total count for pagination.
func (r *Reader) ListEvaluations(ctx context.Context, userID string, page, pageSize int) ([]EvalRow, int, error) {
	var total uint64
	err := r.conn.QueryRow(ctx,
		"SELECT count() FROM evaluations WHERE user_id = @user_id",
		clickhouse.Named("user_id", userID),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListEvaluations count: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.conn.Query(ctx,
		"SELECT "+evalColumns+" FROM evaluations "+
			"WHERE user_id = @user_id "+
			"ORDER BY created_at DESC "+
			"LIMIT @limit OFFSET @offset",
		clickhouse.Named("user_id", userID),
		clickhouse.Named("limit", uint32(pageSize)),
		clickhouse.Named("offset", uint32(offset)),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListEvaluations query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var evals []EvalRow
	for rows.Next() {
		var e EvalRow
		if err := scanEval(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("ListEvaluations scan: %w", err)
		}
		evals = append(evals, e)
	}

	return evals, int(total), rows.Err()
}

// GetEvaluation returns a single evaluation by owner and id, or nil if not
// found. Not-found is a normal empty state, never conflated with a storage
// error.
func (r *Reader) GetEvaluation(ctx context.Context, userID, id string) (*EvalRow, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT "+evalColumns+" FROM evaluations "+
			"WHERE user_id = @user_id AND id = @id LIMIT 1",
		clickhouse.Named("user_id", userID),
		clickhouse.Named("id", id),
	)
	if err != nil {
		return nil, fmt.Errorf("GetEvaluation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var e EvalRow
	if err := scanEval(rows, &e); err != nil {
		return nil, fmt.Errorf("GetEvaluation scan: %w", err)
	}
	return &e, nil
}

// TrendRows returns a user's trend columns in [from, to], ascending by
// created_at. The daily aggregator depends on this ordering.
func (r *Reader) TrendRows(ctx context.Context, userID string, from, to time.Time) ([]TrendRow, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT created_at, score, latency_ms, pii_tokens_redacted "+
			"FROM evaluations "+
			"WHERE user_id = @user_id AND created_at >= @from AND created_at <= @to "+
			"ORDER BY created_at ASC",
		clickhouse.Named("user_id", userID),
		clickhouse.Named("from", from),
		clickhouse.Named("to", to),
	)
	if err != nil {
		return nil, fmt.Errorf("TrendRows query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trend []TrendRow
	for rows.Next() {
		var t TrendRow
		if err := rows.Scan(&t.CreatedAt, &t.Score, &t.LatencyMs, &t.PIITokensRedacted); err != nil {
			return nil, fmt.Errorf("TrendRows scan: %w", err)
		}
		trend = append(trend, t)
	}

	return trend, rows.Err()
}

// QueryKPIs computes the headline KPI snapshot for a user in a single
// server-side aggregation. Returns nil when the user has no evaluations —
// "no data yet" must be distinguishable from a storage error.
func (r *Reader) QueryKPIs(ctx context.Context, userID string) (*KPISnapshot, error) {
	now := time.Now().UTC()
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	var k KPISnapshot
	err := r.conn.QueryRow(ctx,
		"SELECT count() AS total, "+
			"avg(score) AS overall_success_rate, "+
			"avgIf(latency_ms, created_at >= @thirty) AS avg_latency_30d, "+
			"sumIf(pii_tokens_redacted, created_at >= @seven) AS total_redactions_7d, "+
			"avgIf(score, created_at >= @seven) AS avg_score_7d "+
			"FROM evaluations WHERE user_id = @user_id",
		clickhouse.Named("user_id", userID),
		clickhouse.Named("thirty", thirtyDaysAgo),
		clickhouse.Named("seven", sevenDaysAgo),
	).Scan(&k.TotalEvaluations, &k.OverallSuccessRate, &k.AvgLatency30d,
		&k.TotalRedactions7d, &k.AvgScore7d)
	if err != nil {
		return nil, fmt.Errorf("QueryKPIs: %w", err)
	}

	if k.TotalEvaluations == 0 {
		return nil, nil
	}

	// avgIf over an empty window yields NaN.
	k.OverallSuccessRate = safeFloat(k.OverallSuccessRate)
	k.AvgLatency30d = safeFloat(k.AvgLatency30d)
	k.AvgScore7d = safeFloat(k.AvgScore7d)
	return &k, nil
}

func scanEval(rows driver.Rows, e *EvalRow) error {
	return rows.Scan(
		&e.ID, &e.UserID, &e.InteractionID, &e.Prompt, &e.Response,
		&e.Score, &e.LatencyMs, &e.Flags, &e.PIITokensRedacted, &e.CreatedAt,
	)
}

// safeFloat replaces NaN/Inf with 0.0.
func safeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return f
}
