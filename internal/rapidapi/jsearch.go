package rapidapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

// SourceJSearch is the provenance name for JSearch results.
const SourceJSearch = "jsearch"

// jsearchPageSize is the number of results JSearch returns per page.
const jsearchPageSize = 10

// Ensure JSearchClient implements model.JobSource.
var _ model.JobSource = (*JSearchClient)(nil)

// JSearchParams are the parameters of a JSearch /search call. Query is required.
type JSearchParams struct {
	Query                string
	Page                 *int
	NumPages             *int
	Country              string
	Language             string
	DatePosted           string // all, today, 3days, week, month
	WorkFromHome         *bool
	EmploymentTypes      string
	JobRequirements      string
	Radius               *int
	ExcludeJobPublishers string
	Fields               string
}

func (p JSearchParams) values() query {
	return query{}.
		text("query", p.Query).
		integer("page", p.Page).
		integer("num_pages", p.NumPages).
		text("country", p.Country).
		text("language", p.Language).
		text("date_posted", p.DatePosted).
		boolean("work_from_home", p.WorkFromHome).
		text("employment_types", p.EmploymentTypes).
		text("job_requirements", p.JobRequirements).
		integer("radius", p.Radius).
		text("exclude_job_publishers", p.ExcludeJobPublishers).
		text("fields", p.Fields)
}

// JSearchClient queries the JSearch aggregated job search API.
type JSearchClient struct {
	*Client
}

// NewJSearchClient creates a JSearch client.
func NewJSearchClient(apiKey, host string, httpClient *http.Client) (*JSearchClient, error) {
	if host == "" {
		host = DefaultJSearchHost
	}
	c, err := NewClient(apiKey, host, httpClient)
	if err != nil {
		return nil, err
	}
	return &JSearchClient{Client: c}, nil
}

// Search runs a free-text job search.
func (c *JSearchClient) Search(ctx context.Context, p JSearchParams) (*model.APIResponse, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, errors.New("jsearch: query is required")
	}
	return c.Get(ctx, "/search", p.values().values())
}

// Name implements model.JobSource.
func (c *JSearchClient) Name() string { return SourceJSearch }

// SearchJobs implements model.JobSource. The title filter and keyword are
// combined into the free-text query; the window maps onto date_posted and the
// limit onto whole pages.
func (c *JSearchClient) SearchJobs(ctx context.Context, q model.JobQuery) (*model.APIResponse, error) {
	datePosted := "today"
	if q.Window == model.Window7d {
		datePosted = "week"
	}
	pages := (q.Limit + jsearchPageSize - 1) / jsearchPageSize
	if pages < 1 {
		pages = 1
	}
	return c.Search(ctx, JSearchParams{
		Query:      strings.TrimSpace(q.TitleFilter + " " + q.Keyword),
		Page:       Int(1),
		NumPages:   Int(pages),
		DatePosted: datePosted,
	})
}
