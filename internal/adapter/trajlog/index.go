package trajlog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"roomverse/internal/app/ports"
)

// Index is a small SQLite catalog over the exported trajectory files:
// one row per episode, one row per step. It exists so tooling can find
// episodes without decompressing every JSONL file.
type Index struct {
	db *sql.DB
}

type EpisodeRow struct {
	EpisodeID  string
	Steps      int
	LastStatus string
	StartedAt  time.Time
}

func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			episode_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			steps INTEGER NOT NULL,
			last_status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS steps (
			episode_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			command TEXT NOT NULL,
			status TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			PRIMARY KEY (episode_id, step)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Index{db: db}, nil
}

func (i *Index) RecordStep(ctx context.Context, rec ports.ExecutionRecord) error {
	appliedAt := rec.AppliedAt.UTC().Format(time.RFC3339Nano)
	// Steps are keyed per episode and may be re-recorded, so the
	// episode counter is a high-water mark over step numbers rather
	// than a running total.
	_, err := i.db.ExecContext(ctx, `
		INSERT INTO episodes (episode_id, started_at, steps, last_status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (episode_id) DO UPDATE SET
			steps = MAX(episodes.steps, excluded.steps),
			last_status = excluded.last_status`,
		rec.EpisodeID, appliedAt, rec.Step, rec.Result.Status)
	if err != nil {
		return err
	}
	_, err = i.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO steps (episode_id, step, command, status, applied_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.EpisodeID, rec.Step, rec.Command, rec.Result.Status, appliedAt)
	return err
}

func (i *Index) Episodes(ctx context.Context) ([]EpisodeRow, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT episode_id, started_at, steps, last_status
		FROM episodes ORDER BY started_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EpisodeRow{}
	for rows.Next() {
		var row EpisodeRow
		var startedAt string
		if err := rows.Scan(&row.EpisodeID, &startedAt, &row.Steps, &row.LastStatus); err != nil {
			return nil, err
		}
		row.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (i *Index) Close() error { return i.db.Close() }
