package model

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Job is a raw listing as returned by a job-board API. Providers disagree on
// field names (job_title vs title, employer_name vs organization), so the
// record stays untyped until it is normalized into a Record.
type Job map[string]any

// Window is the posting-age window a search covers.
type Window string

const (
	Window24h Window = "24h"
	Window7d  Window = "7d"
)

// Valid reports whether w is one of the supported windows.
func (w Window) Valid() bool {
	return w == Window24h || w == Window7d
}

// Record is the flat shape posted to the table webhook.
// Values copied from the source job keep their original JSON type; a missing
// value encodes as null.
type Record struct {
	UnknownID            string  `json:"unknown_id"`
	JobTitle             any     `json:"job_title"`
	Company              any     `json:"company"`
	Location             any     `json:"location"`
	JobURL               any     `json:"job_url"`
	ExternalApplyURL     any     `json:"external_apply_url"`
	PostedAt             any     `json:"posted_at"`
	Website              any     `json:"website"`
	CompanyDomain        any     `json:"company_domain"`
	CompanyLinkedInURL   any     `json:"company_linkedin_url"`
	JobDescription       any     `json:"job_description"`
	EmploymentType       any     `json:"employment_type"`
	Seniority            any     `json:"seniority"`
	Remote               any     `json:"remote"`
	Sources              string  `json:"sources"`
	Keywords             string  `json:"keywords"`
	Window               Window  `json:"window"`
	EmployeesLTE         *int    `json:"employees_lte,omitempty"`
	EmployeesGTE         *int    `json:"employees_gte,omitempty"`
	CompanyEmployeeCount any     `json:"company_employee_count,omitempty"`
}

// Title returns the record's job title as display text.
func (r Record) Title() string { return Stringify(r.JobTitle) }

// CompanyName returns the record's company as display text.
func (r Record) CompanyName() string { return Stringify(r.Company) }

// LocationText returns the record's location as display text.
func (r Record) LocationText() string { return Stringify(r.Location) }

// Stringify renders a loosely-typed JSON value as text. nil becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// JobQuery is the provider-neutral description of one search call.
type JobQuery struct {
	Window       Window
	TitleFilter  string
	Keyword      string // description filter; empty means none
	EmployeesLTE *int
	EmployeesGTE *int
	Limit        int
}

// APIResponse is a decoded provider response. Data holds the parsed JSON body,
// or {"raw": <text>} when the body was not valid JSON.
type APIResponse struct {
	Status int
	Header http.Header
	Data   any
}

// OK reports whether the provider accepted the request.
func (r *APIResponse) OK() bool {
	return r != nil && (r.Status == http.StatusOK || r.Status == http.StatusCreated)
}

// JobSource searches one job-listing provider.
type JobSource interface {
	Name() string
	SearchJobs(ctx context.Context, q JobQuery) (*APIResponse, error)
}

// Deliverer ships a batch of records to their destination.
type Deliverer interface {
	Deliver(ctx context.Context, records []Record) error
}

// Ledger remembers which job keys were already delivered.
type Ledger interface {
	HasDelivered(key string) (bool, error)
	MarkDelivered(key, batchID string) error
	Prune(olderThan time.Duration) (int64, error)
	Count() (int, error)
}

// RecordFilter decides whether a record is worth delivering.
type RecordFilter interface {
	Match(r Record) bool
}
