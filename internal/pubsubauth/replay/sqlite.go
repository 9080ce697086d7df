package replay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// schema matches spec §6 literally: a WITHOUT ROWID key-value table keyed
// by the raw HMAC digest, plus an index supporting the reaper's earliest-
// expiry scan.
const schema = `
CREATE TABLE IF NOT EXISTS httppubsub_hmacs (
	code       BLOB PRIMARY KEY,
	expires_at INTEGER NOT NULL
) WITHOUT ROWID;
CREATE INDEX IF NOT EXISTS idx_httppubsub_hmacs_expires_at ON httppubsub_hmacs(expires_at);
`

// SQLiteStore is the durable replay store: a single serialized connection
// plus a background reaper goroutine that deletes expired codes (spec
// §4.6, §5).
type SQLiteStore struct {
	path              string
	tokenLifetime     time.Duration
	cleanupBatchDelay time.Duration
	now               func() time.Time

	// mu serializes every operation on conn, modeling the "single
	// outstanding operation at a time" durable cursor discipline (spec
	// §5).
	mu   sync.Mutex
	db   *sql.DB
	conn *sql.Conn

	wake         chan struct{}
	reaperCancel context.CancelFunc
	reaperDone   chan struct{}
}

// NewSQLiteStore constructs a store backed by the sqlite database at path.
// Call Setup before first use.
func NewSQLiteStore(path string, tokenLifetime, cleanupBatchDelay time.Duration) *SQLiteStore {
	return &SQLiteStore{
		path:              path,
		tokenLifetime:     tokenLifetime,
		cleanupBatchDelay: cleanupBatchDelay,
		now:               time.Now,
	}
}

// Setup opens the database, creates the schema, and starts the background
// reaper.
func (s *SQLiteStore) Setup(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("replay: open sqlite %q: %w", s.path, err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("replay: acquire connection: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		db.Close()
		return fmt.Errorf("replay: create schema: %w", err)
	}

	s.db = db
	s.conn = conn
	s.wake = make(chan struct{}, 1)
	reaperCtx, cancel := context.WithCancel(context.Background())
	s.reaperCancel = cancel
	s.reaperDone = make(chan struct{})
	go s.reapLoop(reaperCtx)
	return nil
}

// Teardown cancels the reaper, then closes the cursor, then the
// connection, each step best-effort so a failure in one does not skip the
// rest (spec §5).
func (s *SQLiteStore) Teardown(context.Context) error {
	var errs []error

	if s.reaperCancel != nil {
		s.reaperCancel()
		<-s.reaperDone
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cursor: %w", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// MarkCodeUsed implements the begin-immediate / conditional-insert /
// rowcount protocol of spec §4.6.
func (s *SQLiteStore) MarkCodeUsed(ctx context.Context, code [64]byte) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return "", fmt.Errorf("replay: begin immediate: %w", err)
	}

	expiresAt := s.now().Add(s.tokenLifetime).Unix()
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO httppubsub_hmacs (code, expires_at)
		 SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM httppubsub_hmacs WHERE code = ?)`,
		code[:], expiresAt, code[:])
	if err != nil {
		_, _ = s.conn.ExecContext(ctx, "ROLLBACK")
		return "", fmt.Errorf("replay: insert: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		_, _ = s.conn.ExecContext(ctx, "ROLLBACK")
		return "", fmt.Errorf("replay: rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.conn.ExecContext(ctx, "ROLLBACK"); err != nil {
			return "", fmt.Errorf("replay: rollback after conflict: %w", err)
		}
		return ResultConflict, nil
	}

	if _, err := s.conn.ExecContext(ctx, "COMMIT"); err != nil {
		return "", fmt.Errorf("replay: commit: %w", err)
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return ResultOK, nil
}

// CountRows reports the current number of recorded HMAC digests, for
// metrics gauges. It is a plain SELECT COUNT(*), not part of the replay
// protocol itself.
func (s *SQLiteStore) CountRows(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	row := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM httppubsub_hmacs")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("replay: count rows: %w", err)
	}
	return n, nil
}

// reapLoop implements spec §4.6's background expiry task.
func (s *SQLiteStore) reapLoop(ctx context.Context) {
	defer close(s.reaperDone)

	for {
		earliest, ok := s.sweepExpired(ctx)
		if ctx.Err() != nil {
			return
		}

		var wait time.Duration
		if !ok {
			if !s.sleepOrWake(ctx, 0, true) {
				return
			}
			wait = s.tokenLifetime + s.cleanupBatchDelay
			if !s.sleepOrWake(ctx, wait, false) {
				return
			}
			continue
		}

		wait = time.Until(earliest)
		if wait < s.cleanupBatchDelay {
			wait = s.cleanupBatchDelay
		}
		if !s.sleepOrWake(ctx, wait, true) {
			return
		}
	}
}

// sweepExpired deletes expired rows and reports the earliest remaining
// expiry, if any.
func (s *SQLiteStore) sweepExpired(ctx context.Context) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	_, _ = s.conn.ExecContext(ctx, "DELETE FROM httppubsub_hmacs WHERE expires_at < ?", now)

	var earliest sql.NullInt64
	row := s.conn.QueryRowContext(ctx, "SELECT MIN(expires_at) FROM httppubsub_hmacs")
	if err := row.Scan(&earliest); err != nil || !earliest.Valid {
		return time.Time{}, false
	}
	return time.Unix(earliest.Int64, 0), true
}

// sleepOrWake blocks until ctx is canceled, d elapses, or (when wakeable)
// a successful insert signals the wake channel. It returns false when the
// reaper should exit.
func (s *SQLiteStore) sleepOrWake(ctx context.Context, d time.Duration, wakeable bool) bool {
	var timer <-chan time.Time
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timer = t.C
	}
	if wakeable {
		select {
		case <-ctx.Done():
			return false
		case <-s.wake:
			return true
		case <-timer:
			return true
		}
	}
	select {
	case <-ctx.Done():
		return false
	case <-timer:
		return true
	}
}
