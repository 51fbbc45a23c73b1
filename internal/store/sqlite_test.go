package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewSQLiteLedger(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteLedger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMarkDeliveredThenHasDelivered(t *testing.T) {
	s := newTestLedger(t)

	if err := s.MarkDelivered("id:123", "batch-1"); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}

	ok, err := s.HasDelivered("id:123")
	if err != nil {
		t.Fatalf("HasDelivered: %v", err)
	}
	if !ok {
		t.Error("expected HasDelivered to return true after MarkDelivered")
	}
}

func TestHasDeliveredUnknownReturnsFalse(t *testing.T) {
	s := newTestLedger(t)

	ok, err := s.HasDelivered("https://example.com/jobs/1")
	if err != nil {
		t.Fatalf("HasDelivered: %v", err)
	}
	if ok {
		t.Error("expected HasDelivered to return false for unknown key")
	}
}

func TestMarkDeliveredIdempotent(t *testing.T) {
	s := newTestLedger(t)

	if err := s.MarkDelivered("id:456", "batch-1"); err != nil {
		t.Fatalf("first MarkDelivered: %v", err)
	}
	if err := s.MarkDelivered("id:456", "batch-2"); err != nil {
		t.Fatalf("second MarkDelivered (duplicate): %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 key, got %d", n)
	}

	var batch string
	if err := s.db.QueryRow("SELECT batch_id FROM delivered_jobs WHERE job_key = ?", "id:456").Scan(&batch); err != nil {
		t.Fatal(err)
	}
	if batch != "batch-1" {
		t.Errorf("expected first batch to be kept, got %s", batch)
	}
}

func TestPruneRemovesOldEntries(t *testing.T) {
	s := newTestLedger(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base.Add(-72 * time.Hour) }
	if err := s.MarkDelivered("old", "b1"); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return base.Add(-1 * time.Hour) }
	if err := s.MarkDelivered("recent", "b2"); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return base }
	removed, err := s.Prune(48 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned entry, got %d", removed)
	}

	if ok, _ := s.HasDelivered("old"); ok {
		t.Error("old entry should have been pruned")
	}
	if ok, _ := s.HasDelivered("recent"); !ok {
		t.Error("recent entry should survive")
	}
}

func TestStats(t *testing.T) {
	s := newTestLedger(t)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats on empty ledger: %v", err)
	}
	if st.Keys != 0 || !st.Oldest.IsZero() {
		t.Errorf("unexpected empty stats %+v", st)
	}

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }
	s.MarkDelivered("a", "b1")
	s.MarkDelivered("b", "b1")
	s.now = func() time.Time { return first.Add(time.Hour) }
	s.MarkDelivered("c", "b2")

	st, err = s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Keys != 3 || st.Batches != 2 {
		t.Errorf("unexpected counts %+v", st)
	}
	if !st.Oldest.Equal(first) || !st.Newest.Equal(first.Add(time.Hour)) {
		t.Errorf("unexpected range %v - %v", st.Oldest, st.Newest)
	}
}

func TestNopLedger(t *testing.T) {
	var l NopLedger
	if err := l.MarkDelivered("k", "b"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.HasDelivered("k"); ok {
		t.Error("NopLedger must never report a delivery")
	}
	if n, _ := l.Count(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}
