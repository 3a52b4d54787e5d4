package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/fakeye/internal/dbx"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/storage/migrations"

	_ "modernc.org/sqlite"
)

// DefaultPollInterval is how often the store checks for writes made by
// other processes sharing the same database file.
const DefaultPollInterval = time.Second

// SQLiteStore is the durable Store implementation. Each namespace is one row
// carrying the JSON blob and a revision counter that is bumped on every
// write.
//
// Change detection works two ways: writes through this process notify local
// watchers directly, and a background poller compares revision counters so
// writes made by other processes sharing the file are noticed too. This is
// the cross-context "storage changed" signal.
type SQLiteStore struct {
	db    *sql.DB
	log   logging.Logger
	watch *watchSet

	mu   sync.Mutex
	revs map[string]int64

	cancelPoll context.CancelFunc
	pollDone   chan struct{}
}

// Open opens (creating if needed) the store at dsn, applies migrations and
// starts the change poller with DefaultPollInterval.
func Open(ctx context.Context, dsn string, log logging.Logger) (*SQLiteStore, error) {
	return OpenWithPollInterval(ctx, dsn, DefaultPollInterval, log)
}

// OpenWithPollInterval is Open with an explicit poll interval. Tests use a
// short interval to observe cross-store notifications quickly.
func OpenWithPollInterval(ctx context.Context, dsn string, pollInterval time.Duration, log logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite allows a single writer; one pooled connection keeps the poller
	// and callers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	s := &SQLiteStore{
		db:       db,
		log:      log,
		watch:    newWatchSet(),
		revs:     make(map[string]int64),
		pollDone: make(chan struct{}),
	}

	if err := s.loadRevisions(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancelPoll = cancel
	go s.pollLoop(pollCtx, pollInterval)

	return s, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Read returns the namespace's blob, or nil if it is absent.
func (s *SQLiteStore) Read(ctx context.Context, namespace string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM namespaces WHERE namespace = ?`, namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read namespace %s: %w", namespace, err)
	}
	return value, nil
}

// Write replaces the namespace's blob and bumps its revision, then wakes
// local watchers.
func (s *SQLiteStore) Write(ctx context.Context, namespace string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query := ` INSERT INTO namespaces (namespace, value, revision, updated_at)
			values (?, ?, 1, ?)
			ON CONFLICT(namespace) DO UPDATE SET value = excluded.value,
				revision = namespaces.revision + 1,
				updated_at = excluded.updated_at
	`
	// The upsert and the revision read run in one transaction so the
	// recorded revision matches this write even with a concurrent poller.
	var rev int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, query, namespace, value, time.Now().UnixMilli()); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`SELECT revision FROM namespaces WHERE namespace = ?`, namespace).Scan(&rev)
	})
	if err != nil {
		return fmt.Errorf("failed to write namespace %s: %w", namespace, err)
	}

	s.mu.Lock()
	s.revs[namespace] = rev
	s.mu.Unlock()

	s.watch.notify(namespace)
	return nil
}

// Delete removes the namespace. Removing an absent namespace is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, namespace string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM namespaces WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", namespace, err)
	}

	s.mu.Lock()
	delete(s.revs, namespace)
	s.mu.Unlock()

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.watch.notify(namespace)
	}
	return nil
}

// Watch subscribes to change signals for the namespace.
func (s *SQLiteStore) Watch(namespace string) (<-chan struct{}, func()) {
	return s.watch.add(namespace)
}

// Close stops the poller and closes the database.
func (s *SQLiteStore) Close() error {
	s.cancelPoll()
	<-s.pollDone
	return s.db.Close()
}

func (s *SQLiteStore) loadRevisions(ctx context.Context) error {
	current, err := s.queryRevisions(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.revs = current
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) pollLoop(ctx context.Context, interval time.Duration) {
	defer close(s.pollDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce compares the table's revision counters with the last observed
// set and wakes watchers of every namespace that moved. Missed polls are
// harmless: the next one still sees the final revisions.
func (s *SQLiteStore) pollOnce(ctx context.Context) {
	current, err := s.queryRevisions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn(ctx, "revision poll failed", "error", err)
		}
		return
	}

	s.mu.Lock()
	var changed []string
	for ns, rev := range current {
		if old, ok := s.revs[ns]; !ok || old != rev {
			changed = append(changed, ns)
		}
	}
	for ns := range s.revs {
		if _, ok := current[ns]; !ok {
			changed = append(changed, ns)
		}
	}
	s.revs = current
	s.mu.Unlock()

	for _, ns := range changed {
		s.watch.notify(ns)
	}
}

func (s *SQLiteStore) queryRevisions(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT namespace, revision FROM namespaces`)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	current := make(map[string]int64)
	for rows.Next() {
		var ns string
		var rev int64
		if err := rows.Scan(&ns, &rev); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		current[ns] = rev
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revisions: %w", err)
	}
	return current, nil
}
