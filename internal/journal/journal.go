// Package journal keeps a SQLite-backed record of orchestration attempts.
// The filesystem completion marker stays the source of truth for workflow
// engines; the journal exists so operators can inspect run history without
// crawling run directories.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/pkg/api"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Journal is a SQLite-backed run history.
type Journal struct{ db *sql.DB }

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema, err := migrationFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	if _, err := j.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Begin records the start of an orchestration attempt and returns its id.
func (j *Journal) Begin(ctx context.Context, model string, cycle time.Time, member string, keyPath []string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, model, cycle, member, key_path, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, model, cycle.Format(time.RFC3339), member, strings.Join(keyPath, "."),
		string(api.RunRunning), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SetRunDir stores the driver's run directory once it is known.
func (j *Journal) SetRunDir(ctx context.Context, id, rundir string) error {
	_, err := j.db.ExecContext(ctx, `UPDATE runs SET run_dir = ? WHERE id = ?`, rundir, id)
	if err != nil {
		return fmt.Errorf("update run dir: %w", err)
	}
	return nil
}

// Finish closes out a run record with its terminal status.
func (j *Journal) Finish(ctx context.Context, id string, status api.RunStatus, reason string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, reason = ?, finished_at = ? WHERE id = ?`,
		string(status), reason, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Recent returns the most recent run records, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]api.RunRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, model, cycle, member, key_path, run_dir, status, reason, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var records []api.RunRecord
	for rows.Next() {
		var rec api.RunRecord
		var cycle, started string
		var finished sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Model, &cycle, &rec.Member, &rec.KeyPath,
			&rec.RunDir, &rec.Status, &rec.Reason, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Cycle, _ = time.Parse(time.RFC3339, cycle)
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid {
			t, _ := time.Parse(time.RFC3339, finished.String)
			rec.FinishedAt = &t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
