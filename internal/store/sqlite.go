// Package store keeps the delivery ledger: the job keys already posted to the
// webhook, so repeated runs over an overlapping window do not resend them.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/autotouch/outbound/internal/model"
)

// Ensure SQLiteLedger implements model.Ledger.
var _ model.Ledger = (*SQLiteLedger)(nil)

// SQLiteLedger records delivered job keys in a SQLite database.
type SQLiteLedger struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteLedger opens (or creates) a SQLite database at dbPath and ensures
// the delivered_jobs table exists.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	// delivered_at is unix seconds.
	createTable := `CREATE TABLE IF NOT EXISTS delivered_jobs (
		job_key      TEXT PRIMARY KEY,
		batch_id     TEXT NOT NULL,
		delivered_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating delivered_jobs table: %w", err)
	}

	return &SQLiteLedger{db: db, now: time.Now}, nil
}

// HasDelivered reports whether key was delivered by an earlier batch.
func (s *SQLiteLedger) HasDelivered(key string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM delivered_jobs WHERE job_key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking delivery of %s: %w", key, err)
	}
	return true, nil
}

// MarkDelivered records key as delivered in batchID. Marking a key twice keeps
// the first batch.
func (s *SQLiteLedger) MarkDelivered(key, batchID string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO delivered_jobs (job_key, batch_id, delivered_at) VALUES (?, ?, ?)",
		key, batchID, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking %s as delivered: %w", key, err)
	}
	return nil
}

// Prune deletes entries delivered more than olderThan ago and returns how many
// were removed.
func (s *SQLiteLedger) Prune(olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	res, err := s.db.Exec("DELETE FROM delivered_jobs WHERE delivered_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning deliveries older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning deliveries: %w", err)
	}
	return n, nil
}

// Count returns the number of delivered keys.
func (s *SQLiteLedger) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM delivered_jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting deliveries: %w", err)
	}
	return count, nil
}

// Stats summarizes the ledger.
type Stats struct {
	Keys    int
	Batches int
	Oldest  time.Time // zero when empty
	Newest  time.Time
}

// Stats returns key and batch counts and the delivery time range.
func (s *SQLiteLedger) Stats() (Stats, error) {
	var (
		st             Stats
		oldest, newest sql.NullInt64
	)
	err := s.db.QueryRow(
		"SELECT COUNT(*), COUNT(DISTINCT batch_id), MIN(delivered_at), MAX(delivered_at) FROM delivered_jobs",
	).Scan(&st.Keys, &st.Batches, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("reading ledger stats: %w", err)
	}
	if oldest.Valid {
		st.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		st.Newest = time.Unix(newest.Int64, 0)
	}
	return st, nil
}

// Close closes the underlying database connection.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}
