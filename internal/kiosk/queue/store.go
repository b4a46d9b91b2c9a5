package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrStorageExhausted is fatal: the kiosk can no longer guarantee that
// scans survive an outage, so the operator must be alerted loudly.
var ErrStorageExhausted = errors.New("offline queue storage exhausted")

// QueuedScan is a scan the server has not acknowledged yet. CapturedAt
// is never rewritten; it stays the authoritative punch time no matter
// how late the sync happens.
type QueuedScan struct {
	ID         string
	BadgeToken string
	CapturedAt time.Time
	FirstName  string
	LastName   string
	Attempts   int
	EnqueuedAt time.Time
}

// Store is the durable offline scan log, backed by a local sqlite file
// so queued scans survive a kiosk reboot.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS queued_scans (
	id           TEXT PRIMARY KEY,
	badge_token  TEXT NOT NULL,
	captured_at_ms INTEGER NOT NULL,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	attempts     INTEGER NOT NULL DEFAULT 0,
	enqueued_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queued_scans_order ON queued_scans(enqueued_at_ms, id);
`

// Open opens (or creates) the queue database under dataDir.
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "scan-queue.db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create queue schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Enqueue durably appends a scan and returns its id. Failure to write
// is storage exhaustion, the one fatal error of the queue.
func (s *Store) Enqueue(ctx context.Context, event scan.Event, hint scan.EmployeeHint) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO queued_scans(id, badge_token, captured_at_ms, first_name, last_name, attempts, enqueued_at_ms)
VALUES (?, ?, ?, ?, ?, 0, ?);
`,
		id, event.BadgeToken, event.CapturedAt.UTC().UnixMilli(),
		hint.FirstName, hint.LastName, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageExhausted, err)
	}

	return id, nil
}

// List returns a snapshot of all queued scans, oldest first. Entries
// appended during a drain show up in the next snapshot.
func (s *Store) List(ctx context.Context) ([]QueuedScan, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, badge_token, captured_at_ms, first_name, last_name, attempts, enqueued_at_ms
FROM queued_scans
ORDER BY enqueued_at_ms, id;
`)
	if err != nil {
		return nil, fmt.Errorf("list queued scans: %w", err)
	}
	defer rows.Close()

	var scans []QueuedScan
	for rows.Next() {
		var q QueuedScan
		var capturedMs, enqueuedMs int64
		if err := rows.Scan(&q.ID, &q.BadgeToken, &capturedMs, &q.FirstName, &q.LastName, &q.Attempts, &enqueuedMs); err != nil {
			return nil, fmt.Errorf("scan queued scan row: %w", err)
		}
		q.CapturedAt = time.UnixMilli(capturedMs).UTC()
		q.EnqueuedAt = time.UnixMilli(enqueuedMs).UTC()
		scans = append(scans, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queued scans: %w", err)
	}

	return scans, nil
}

// Remove deletes a queued scan. Removing an id that is already gone is
// a no-op, so a retried acknowledgement cannot fail.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM queued_scans WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("remove queued scan: %w", err)
	}
	return nil
}

// RecordAttempt bumps the persisted attempt counter so operator alerts
// survive a restart.
func (s *Store) RecordAttempt(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE queued_scans SET attempts = attempts + 1 WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("record sync attempt: %w", err)
	}
	return nil
}

// Len is the number of scans not yet acknowledged by the server.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queued_scans;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count queued scans: %w", err)
	}
	return n, nil
}
