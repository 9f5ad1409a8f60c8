package farm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"multishot/internal/config"
)

// Submission is one recorded farm submission.
type Submission struct {
	ID          int64
	JobID       string
	Shot        string
	WriteNode   string
	Script      string
	SubmittedAt time.Time
}

// History persists submission records in SQLite.
type History struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// OpenHistory initializes or connects to the submission history database
// under the configured history directory.
func OpenHistory(cfg *config.Config) (*History, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Farm.HistoryDir, "submissions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	history := &History{db: db, path: dbPath}
	if err := history.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return history, nil
}

func (h *History) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL,
	shot TEXT NOT NULL,
	write_node TEXT NOT NULL,
	script TEXT NOT NULL,
	submitted_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_shot ON submissions(shot);
`
	if err := h.execWithRetry(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Record appends a submission row. The timestamp is assigned here when
// the caller leaves it zero.
func (h *History) Record(ctx context.Context, sub Submission) error {
	at := sub.SubmittedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	err := h.execWithRetry(ctx,
		`INSERT INTO submissions (job_id, shot, write_node, script, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sub.JobID, sub.Shot, sub.WriteNode, sub.Script, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Recent returns the newest submissions, most recent first. A shot
// identifier filters the result when non-empty.
func (h *History) Recent(ctx context.Context, shotID string, limit int) ([]Submission, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, job_id, shot, write_node, script, submitted_at
		FROM submissions`
	args := []any{}
	if shotID != "" {
		query += " WHERE shot = ?"
		args = append(args, shotID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var at string
		if err := rows.Scan(&sub.ID, &sub.JobID, &sub.Shot, &sub.WriteNode, &sub.Script, &at); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, at); err == nil {
			sub.SubmittedAt = parsed
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (h *History) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := h.db.ExecContext(ctx, query, args...)
		return err
	})
}
