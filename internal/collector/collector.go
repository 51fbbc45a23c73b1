// Package collector runs a job search across every configured source and
// merges the results by job key.
package collector

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/autotouch/outbound/internal/jobs"
	"github.com/autotouch/outbound/internal/model"
)

// Query describes one collection run. Keywords are searched one at a time;
// an empty list means a single pass with no keyword.
type Query struct {
	Window       model.Window
	TitleFilter  string
	Keywords     []string
	EmployeesLTE *int
	EmployeesGTE *int
	Limit        int
}

// Failure is a source call that contributed nothing to the merge.
type Failure struct {
	Source  string
	Keyword string
	Status  int // zero when the request never got a response
	Err     error
}

func (f Failure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Source, f.Err)
	}
	return fmt.Sprintf("%s: status %d", f.Source, f.Status)
}

// Merged is the result of a collection run. Jobs holds the first-seen body per
// key; Sources and Keywords accumulate across every sighting.
type Merged struct {
	Order    []string
	Jobs     map[string]model.Job
	Sources  map[string]mapset.Set[string]
	Keywords map[string]mapset.Set[string]
	// Fetched counts raw jobs per source, before merging.
	Fetched  map[string]int
	Failures []Failure
}

func newMerged() *Merged {
	return &Merged{
		Jobs:     make(map[string]model.Job),
		Sources:  make(map[string]mapset.Set[string]),
		Keywords: make(map[string]mapset.Set[string]),
		Fetched:  make(map[string]int),
	}
}

// Add folds one sighting of job into the merge.
func (m *Merged) Add(job model.Job, source, keyword string) {
	key := jobs.Key(job)
	if _, ok := m.Jobs[key]; !ok {
		m.Jobs[key] = job
		m.Order = append(m.Order, key)
		m.Sources[key] = mapset.NewThreadUnsafeSet[string]()
		m.Keywords[key] = mapset.NewThreadUnsafeSet[string]()
	}
	m.Sources[key].Add(source)
	if keyword != "" {
		m.Keywords[key].Add(keyword)
	}
}

// Len returns the number of unique jobs.
func (m *Merged) Len() int { return len(m.Order) }

// KeysFrom returns the keys that source contributed, in merge order.
func (m *Merged) KeysFrom(source string) []string {
	var keys []string
	for _, key := range m.Order {
		if m.Sources[key].Contains(source) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Records normalizes every merged job, in first-seen order.
func (m *Merged) Records(window model.Window, employeesLTE, employeesGTE *int) []model.Record {
	records := make([]model.Record, 0, len(m.Order))
	for _, key := range m.Order {
		records = append(records, jobs.BuildRecord(
			key,
			m.Jobs[key],
			m.Sources[key].ToSlice(),
			m.Keywords[key].ToSlice(),
			window,
			employeesLTE,
			employeesGTE,
		))
	}
	return records
}

// Collector calls its sources sequentially and merges what they return.
type Collector struct {
	sources []model.JobSource
	logger  *slog.Logger
}

// New creates a collector. Sources are called in the order given.
func New(sources []model.JobSource, logger *slog.Logger) *Collector {
	return &Collector{sources: sources, logger: logger}
}

// Collect runs q against every source for every keyword. A source call that
// fails or returns a status other than 200/201 is logged and recorded in
// Merged.Failures; it does not stop the run. Context cancellation does.
func (c *Collector) Collect(ctx context.Context, q Query) (*Merged, error) {
	merged := newMerged()

	keywords := q.Keywords
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	for _, keyword := range keywords {
		for _, src := range c.sources {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("collecting jobs: %w", err)
			}

			resp, err := src.SearchJobs(ctx, model.JobQuery{
				Window:       q.Window,
				TitleFilter:  q.TitleFilter,
				Keyword:      keyword,
				EmployeesLTE: q.EmployeesLTE,
				EmployeesGTE: q.EmployeesGTE,
				Limit:        q.Limit,
			})
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("collecting jobs: %w", ctx.Err())
				}
				c.logger.Warn("source request failed", "source", src.Name(), "keyword", keyword, "error", err)
				merged.Failures = append(merged.Failures, Failure{Source: src.Name(), Keyword: keyword, Err: err})
				continue
			}
			if !resp.OK() {
				c.logger.Warn("source returned non-success status",
					"source", src.Name(),
					"keyword", keyword,
					"status", resp.Status,
				)
				merged.Failures = append(merged.Failures, Failure{Source: src.Name(), Keyword: keyword, Status: resp.Status})
				continue
			}

			found := jobs.ExtractJobs(resp.Data)
			merged.Fetched[src.Name()] += len(found)
			for _, job := range found {
				merged.Add(job, src.Name(), keyword)
			}

			c.logger.Debug("searched source",
				"source", src.Name(),
				"keyword", keyword,
				"jobs", len(found),
			)
		}
	}

	c.logger.Info("collected jobs",
		"unique", merged.Len(),
		"sources", len(c.sources),
		"keywords", len(q.Keywords),
		"failures", len(merged.Failures),
	)

	return merged, nil
}
