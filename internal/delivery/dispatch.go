package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/autotouch/outbound/internal/model"
)

// Result summarizes a dispatch.
type Result struct {
	Sent    int
	Skipped int // already in the ledger
	Batches int
}

// Dispatcher owns the delivery pipeline for one run:
// skip delivered -> batch -> deliver -> mark delivered.
type Dispatcher struct {
	deliverer model.Deliverer
	ledger    model.Ledger
	batchSize int
	logger    *slog.Logger
}

// NewDispatcher wires a dispatcher. Pass a store.NopLedger to deliver
// everything.
func NewDispatcher(deliverer model.Deliverer, ledger model.Ledger, batchSize int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		deliverer: deliverer,
		ledger:    ledger,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Dispatch delivers records batch by batch. The first failed batch aborts the
// run; keys of batches already delivered stay marked.
func (d *Dispatcher) Dispatch(ctx context.Context, records []model.Record) (Result, error) {
	var res Result

	var pending []model.Record
	for _, r := range records {
		seen, err := d.ledger.HasDelivered(r.UnknownID)
		if err != nil {
			return res, fmt.Errorf("dispatch: checking ledger: %w", err)
		}
		if seen {
			res.Skipped++
			continue
		}
		pending = append(pending, r)
	}

	for i, batch := range Chunk(pending, d.batchSize) {
		batchID := uuid.NewString()
		if err := d.deliverer.Deliver(ctx, batch); err != nil {
			return res, fmt.Errorf("dispatch: batch %d: %w", i+1, err)
		}
		for _, r := range batch {
			if err := d.ledger.MarkDelivered(r.UnknownID, batchID); err != nil {
				return res, fmt.Errorf("dispatch: marking delivered: %w", err)
			}
		}
		res.Sent += len(batch)
		res.Batches++
		d.logger.Info("delivered batch", "batch", i+1, "batch_id", batchID, "records", len(batch))
	}

	return res, nil
}
