package filter

import (
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

// Ensure TitleFilter implements model.RecordFilter.
var _ model.RecordFilter = (*TitleFilter)(nil)

// TitleFilter matches records whose title contains any of the include phrases
// and none of the exclude keywords. Matching is case-insensitive. An empty
// include list matches every title.
//
// The job-board APIs treat title_filter loosely, so this is the local check
// that a returned posting really is one of the targeted roles.
type TitleFilter struct {
	include []string
	exclude []string
}

// NewTitleFilter returns a filter over the given include phrases and exclude
// keywords. Blank entries are ignored.
func NewTitleFilter(include []string, exclude []string) *TitleFilter {
	return &TitleFilter{
		include: lowerAll(include),
		exclude: lowerAll(exclude),
	}
}

// Match returns true if the record's title passes both lists.
func (f *TitleFilter) Match(r model.Record) bool {
	title := strings.ToLower(r.Title())

	for _, kw := range f.exclude {
		if strings.Contains(title, kw) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, phrase := range f.include {
		if strings.Contains(title, phrase) {
			return true
		}
	}
	return false
}

// Apply returns the records that match f, preserving order.
func Apply(f model.RecordFilter, records []model.Record) []model.Record {
	var out []model.Record
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
