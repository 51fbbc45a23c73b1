package store

import (
	"time"

	"github.com/autotouch/outbound/internal/model"
)

var _ model.Ledger = NopLedger{}

// NopLedger is used when the ledger is disabled and in dry-run mode. Nothing is
// ever recorded, so every job is delivered.
type NopLedger struct{}

func (NopLedger) HasDelivered(string) (bool, error)  { return false, nil }
func (NopLedger) MarkDelivered(string, string) error { return nil }
func (NopLedger) Prune(time.Duration) (int64, error) { return 0, nil }
func (NopLedger) Count() (int, error)                { return 0, nil }
