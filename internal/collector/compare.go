package collector

import (
	"context"
	"fmt"
	"io"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/autotouch/outbound/internal/jobs"
	"github.com/autotouch/outbound/internal/model"
)

// SourceReport is what one source returned for a comparison query.
type SourceReport struct {
	Source     string
	Status     int
	Err        error
	Total      int
	Unique     []model.Job
	Duplicates int
	Keys       mapset.Set[string]
}

// Comparison measures how much the sources overlap for one query.
type Comparison struct {
	Window  model.Window
	Reports []SourceReport
	// Overlap holds the keys every source returned. A failed source
	// counts as returning nothing.
	Overlap mapset.Set[string]
}

// Compare runs q once against each source and reports per-source counts and
// the key overlap. Source failures are reported, not returned.
func Compare(ctx context.Context, sources []model.JobSource, q model.JobQuery) (*Comparison, error) {
	c := &Comparison{Window: q.Window}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comparing sources: %w", err)
		}

		rep := SourceReport{Source: src.Name(), Keys: mapset.NewThreadUnsafeSet[string]()}
		resp, err := src.SearchJobs(ctx, q)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("comparing sources: %w", ctx.Err())
			}
			rep.Err = err
		case !resp.OK():
			rep.Status = resp.Status
		default:
			rep.Status = resp.Status
			found := jobs.ExtractJobs(resp.Data)
			unique, dups := jobs.Dedupe(found)
			rep.Total = len(found)
			rep.Unique = unique
			rep.Duplicates = len(dups)
			for key := range jobs.ByKey(unique) {
				rep.Keys.Add(key)
			}
		}
		c.Reports = append(c.Reports, rep)
	}

	for _, rep := range c.Reports {
		if c.Overlap == nil {
			c.Overlap = rep.Keys.Clone()
			continue
		}
		c.Overlap = c.Overlap.Intersect(rep.Keys)
	}
	if c.Overlap == nil {
		c.Overlap = mapset.NewThreadUnsafeSet[string]()
	}
	return c, nil
}

func (r SourceReport) ok() bool {
	return r.Err == nil && (r.Status == 200 || r.Status == 201)
}

// Write prints the report with up to samples example jobs per source.
func (c *Comparison) Write(w io.Writer, samples int) error {
	var b strings.Builder
	for _, rep := range c.Reports {
		switch {
		case rep.Err != nil:
			fmt.Fprintf(&b, "%s (%s): error: %v\n", rep.Source, c.Window, rep.Err)
		case !rep.ok():
			fmt.Fprintf(&b, "%s (%s): status %d\n", rep.Source, c.Window, rep.Status)
		default:
			fmt.Fprintf(&b, "%s (%s): %d unique: %d dups: %d\n",
				rep.Source, c.Window, rep.Total, len(rep.Unique), rep.Duplicates)
		}
	}
	fmt.Fprintf(&b, "Overlap (by id/url/title+company+location): %d\n", c.Overlap.Cardinality())

	for _, rep := range c.Reports {
		if len(rep.Unique) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\nSample %s results:\n", rep.Source)
		for _, job := range rep.Unique[:min(max(samples, 0), len(rep.Unique))] {
			s := jobs.Summarize(job)
			fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n", s.Title, s.Company, s.Location, s.PostedAt, s.URL)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
