// Package repository provides data access implementations
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// RunRepository records an audit trail of runs. Nothing in the pipeline reads it back.
type RunRepository interface {
	SaveRun(ctx context.Context, summary *entities.RunSummary) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

// RunRecord is one audited run as stored
type RunRecord struct {
	RunID       string
	Source      string
	Pincode     string
	Days        int
	DatesOK     int
	DatesEmpty  int
	DatesFailed int
	Rows        int
	Facilities  []string
	Sent        int
	Failed      int
	StartedAt   time.Time
}

// SQLiteRunRepository implements RunRepository using SQLite
type SQLiteRunRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteRunRepository creates and initializes a new SQLite repository
func NewSQLiteRunRepository(dbPath string) (*SQLiteRunRepository, error) {
	if dbPath == "" {
		// Set default path if not specified
		dbDir := "data"
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "runs.db")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		pincode TEXT NOT NULL,
		days INTEGER NOT NULL,
		dates_ok INTEGER NOT NULL,
		dates_empty INTEGER NOT NULL,
		dates_failed INTEGER NOT NULL,
		row_count INTEGER NOT NULL,
		facilities TEXT,
		started_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		channel TEXT NOT NULL,
		recipient TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_deliveries_run ON deliveries(run_id);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &SQLiteRunRepository{
		db:     db,
		DBPath: dbPath,
	}, nil
}

// Close closes the database connection
func (r *SQLiteRunRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRun stores the run and each delivery attempt in one transaction
func (r *SQLiteRunRepository) SaveRun(ctx context.Context, summary *entities.RunSummary) error {
	inv := summary.Invocation

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs(run_id, source, pincode, days, dates_ok, dates_empty, dates_failed, row_count, facilities, started_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.RunID,
		string(inv.Source),
		inv.Query.Pincode,
		inv.Query.Days,
		summary.Counts.Rows,
		summary.Counts.NoData,
		summary.Counts.Errors,
		len(summary.Table),
		strings.Join(summary.Facilities, "\n"),
		inv.StartedAt.UTC(),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run %s: %v", inv.RunID, err)
	}

	if summary.Dispatch != nil && len(summary.Dispatch.Deliveries) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO deliveries(run_id, channel, recipient, error) VALUES(?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to prepare statement: %v", err)
		}
		defer stmt.Close()

		for _, d := range summary.Dispatch.Deliveries {
			var errText sql.NullString
			if d.Err != nil {
				errText = sql.NullString{String: d.Err.Error(), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, inv.RunID, d.Channel, d.Recipient, errText); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert delivery for %s via %s: %v", d.Recipient, d.Channel, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first, with delivery tallies
func (r *SQLiteRunRepository) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT r.run_id, r.source, r.pincode, r.days, r.dates_ok, r.dates_empty, r.dates_failed,
			r.row_count, r.facilities, r.started_at,
			COUNT(d.id) - COUNT(d.error) AS sent,
			COUNT(d.error) AS failed
		FROM runs r
		LEFT JOIN deliveries d ON d.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.started_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %v", err)
	}
	defer rows.Close()

	var result []RunRecord
	for rows.Next() {
		var rec RunRecord
		var facilities sql.NullString
		if err := rows.Scan(
			&rec.RunID,
			&rec.Source,
			&rec.Pincode,
			&rec.Days,
			&rec.DatesOK,
			&rec.DatesEmpty,
			&rec.DatesFailed,
			&rec.Rows,
			&facilities,
			&rec.StartedAt,
			&rec.Sent,
			&rec.Failed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		if facilities.Valid && facilities.String != "" {
			rec.Facilities = strings.Split(facilities.String, "\n")
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %v", err)
	}

	return result, nil
}

// NopRunRepository discards runs; used when the audit trail is disabled
type NopRunRepository struct{}

func (NopRunRepository) SaveRun(context.Context, *entities.RunSummary) error { return nil }

func (NopRunRepository) RecentRuns(context.Context, int) ([]RunRecord, error) { return nil, nil }

func (NopRunRepository) Close() error { return nil }
