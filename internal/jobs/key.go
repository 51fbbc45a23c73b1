// Package jobs holds the provider-neutral view of job listings: identity,
// deduplication, keyword handling and normalization into webhook records.
package jobs

import (
	"encoding/json"
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

// Field-name fallback chains, in precedence order.
var (
	IDKeys       = []string{"id", "job_id", "jobId", "job_post_id", "job_posting_id", "posting_id", "urn"}
	TitleKeys    = []string{"job_title", "title"}
	CompanyKeys  = []string{"employer_name", "company_name", "organization"}
	LocationKeys = []string{"job_city", "location", "job_location"}
	URLKeys      = []string{"job_apply_link", "job_apply_url", "job_url", "job_link"}
	PostedKeys   = []string{"job_posted_at_datetime_utc", "posted_at", "date_posted"}
)

// Key derives the deduplication identity of a job. A provider ID wins; without
// one the apply URL is used, and failing that a title|company|location
// composite. Key never fails: any record shape, including an empty one,
// produces a key.
func Key(job model.Job) string {
	for _, k := range IDKeys {
		if v := job[k]; truthy(v) {
			return "id:" + normalize(model.Stringify(v))
		}
	}

	if url := normalize(model.Stringify(Pick(job, URLKeys...))); url != "" {
		return url
	}

	title := normalize(model.Stringify(Pick(job, TitleKeys...)))
	company := normalize(model.Stringify(Pick(job, CompanyKeys...)))
	location := normalize(model.Stringify(Pick(job, LocationKeys...)))
	return title + "|" + company + "|" + location
}

// Pick returns the first value under keys that is not nil, an empty string or
// an empty list.
func Pick(job model.Job, keys ...string) any {
	for _, k := range keys {
		v, ok := job[k]
		if !ok || isBlank(v) {
			continue
		}
		return v
	}
	return nil
}

// PickString is Pick rendered as text.
func PickString(job model.Job, keys ...string) string {
	return model.Stringify(Pick(job, keys...))
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// truthy mirrors how an ID field is judged present: zero numbers, false,
// empty strings and empty containers do not count.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
