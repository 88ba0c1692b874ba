// Package db provides report storage backed by PostgreSQL or memory.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/a11y-toolkit/internal/types"
)

// ReportStore persists validation, analysis, and contrast results.
type ReportStore interface {
	SaveReport(ctx context.Context, kind types.ReportKind, payload any) (uuid.UUID, error)
	// GetReport returns nil, nil when id is unknown.
	GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error)
	// ListReports returns the newest reports first. An empty kind matches all.
	ListReports(ctx context.Context, kind types.ReportKind, limit int) ([]types.Report, error)
	Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reports_kind_created ON reports (kind, created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ ReportStore = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the reports table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// SaveReport stores payload as JSON and returns the new report ID.
func (db *DB) SaveReport(ctx context.Context, kind types.ReportKind, payload any) (uuid.UUID, error) {
	jsonBytes, err := marshalPayload(kind, payload)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO reports (kind, payload) VALUES ($1, $2) RETURNING id`,
		string(kind), jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save %s report: %w", kind, err)
	}
	return id, nil
}

// GetReport retrieves a report by ID
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	var report types.Report
	var kind string
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, payload, created_at FROM reports WHERE id = $1`,
		id,
	).Scan(&report.ID, &kind, &report.Payload, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	report.Kind = types.ReportKind(kind)
	return &report, nil
}

// ListReports retrieves recent reports
func (db *DB) ListReports(ctx context.Context, kind types.ReportKind, limit int) ([]types.Report, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, payload, created_at FROM reports
		 WHERE $1 = '' OR kind = $1
		 ORDER BY created_at DESC LIMIT $2`,
		string(kind), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []types.Report{}
	for rows.Next() {
		var report types.Report
		var k string
		if err := rows.Scan(&report.ID, &k, &report.Payload, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report.Kind = types.ReportKind(k)
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// DefaultListLimit applies when ListReports is called without a limit.
const DefaultListLimit = 50

func marshalPayload(kind types.ReportKind, payload any) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown report kind: %q", kind)
	}
	if raw, ok := payload.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid %s payload: not JSON", kind)
		}
		return raw, nil
	}
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	return jsonBytes, nil
}
