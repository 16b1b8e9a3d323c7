package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS advisory_queries (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	params      JSONB NOT NULL DEFAULT '{}',
	model       TEXT NOT NULL DEFAULT '',
	entries     INTEGER NOT NULL DEFAULT 0,
	latency_ms  BIGINT NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS advisory_queries_created_at_idx ON advisory_queries (created_at DESC);
`

const insertQuery = `INSERT INTO advisory_queries (id, kind, params, model, entries, latency_ms, error, created_at)
VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)`

const recentQuery = `SELECT id, kind, params::text, model, entries, latency_ms, error, created_at
FROM advisory_queries
WHERE ($1 = '' OR kind = $1)
ORDER BY created_at DESC
LIMIT $2`

const pruneQuery = `DELETE FROM advisory_queries WHERE created_at < $1`

// QueryRecord is one audited model round trip. It stores request
// parameters and outcome only, never the parsed entries.
type QueryRecord struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Params    map[string]any `json:"params"`
	Model     string         `json:"model,omitempty"`
	Entries   int            `json:"entries"`
	LatencyMs int64          `json:"latency_ms"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type RecentParams struct {
	Kind  string
	Limit int32
}

// QueryLog persists QueryRecords in Postgres.
type QueryLog struct {
	db  DBTX
	now func() time.Time
}

func NewQueryLog(db DBTX) *QueryLog {
	return &QueryLog{db: db, now: time.Now}
}

// EnsureSchema creates the table and index if they do not exist.
func (l *QueryLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create query log schema: %w", err)
	}
	return nil
}

// Record inserts rec, filling ID and CreatedAt when they are empty.
func (l *QueryLog) Record(ctx context.Context, rec QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now().UTC()
	}
	if rec.Params == nil {
		rec.Params = map[string]any{}
	}

	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	_, err = l.db.Exec(ctx, insertQuery,
		rec.ID, rec.Kind, string(params), rec.Model, rec.Entries, rec.LatencyMs, rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	return nil
}

// Recent lists the newest records, optionally restricted to one kind.
func (l *QueryLog) Recent(ctx context.Context, arg RecentParams) ([]QueryRecord, error) {
	rows, err := l.db.Query(ctx, recentQuery, arg.Kind, arg.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}
	defer rows.Close()

	records := []QueryRecord{}
	for rows.Next() {
		var (
			rec    QueryRecord
			params string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &params, &rec.Model, &rec.Entries, &rec.LatencyMs, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
			return nil, fmt.Errorf("failed to decode params of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query records: %w", err)
	}
	return records, nil
}

// Prune deletes records created before cutoff and reports how many went.
func (l *QueryLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := l.db.Exec(ctx, pruneQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune query records: %w", err)
	}
	return tag.RowsAffected(), nil
}
