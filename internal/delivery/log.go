package delivery

import (
	"context"
	"log/slog"

	"github.com/autotouch/outbound/internal/model"
)

// Ensure LogDeliverer implements model.Deliverer.
var _ model.Deliverer = (*LogDeliverer)(nil)

// LogDeliverer writes records to the logger instead of posting them. It backs
// dry runs.
type LogDeliverer struct {
	logger *slog.Logger
}

// NewLogDeliverer returns a deliverer that logs each record via slog.
func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver logs each record. It never fails.
func (d *LogDeliverer) Deliver(_ context.Context, records []model.Record) error {
	for _, r := range records {
		args := []any{"key", r.UnknownID, "title", r.Title(), "company", r.CompanyName(), "sources", r.Sources}
		if u := model.Stringify(r.JobURL); u != "" {
			args = append(args, "url", u)
		}
		d.logger.Info("would deliver", args...)
	}
	return nil
}
