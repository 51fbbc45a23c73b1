package rapidapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autotouch/outbound/internal/model"
)

// SourceLinkedInJobs is the provenance name for LinkedIn Job Search results.
const SourceLinkedInJobs = "linkedin"

// Ensure LinkedInJobsClient implements model.JobSource.
var _ model.JobSource = (*LinkedInJobsClient)(nil)

// LinkedInJobsParams are the filters accepted by the LinkedIn Job Search API.
// Zero values are not sent.
type LinkedInJobsParams struct {
	Limit                         *int
	Offset                        *int
	TitleFilter                   string
	LocationFilter                string
	DescriptionFilter             string
	OrganizationDescriptionFilter string
	OrganizationSpecialtiesFilter string
	OrganizationSlugFilter        string
	DescriptionType               string
	TypeFilter                    string
	Remote                        *bool
	Agency                        *bool
	IndustryFilter                string
	SeniorityFilter               string
	ExcludeATSDuplicate           *bool
	ExternalApplyURL              *bool
	DirectApply                   *bool
	EmployeesLTE                  *int
	EmployeesGTE                  *int
	DateFilter                    string
	Order                         string
	AdvancedTitleFilter           string
	AdvancedOrganizationFilter    string
	IncludeAI                     *bool
	AIWorkArrangementFilter       string
	AIExperienceLevelFilter       string
	AIVisaSponsorshipFilter       *bool
	AITaxonomiesAFilter           string
	AITaxonomiesAPrimaryFilter    string
	AITaxonomiesAExclusionFilter  string
	AIEducationRequirementsFilter string
	AIHasSalary                   *bool
	OrganizationFilter            string
}

func (p LinkedInJobsParams) values() query {
	return query{}.
		integer("limit", p.Limit).
		integer("offset", p.Offset).
		text("title_filter", p.TitleFilter).
		text("location_filter", p.LocationFilter).
		text("description_filter", p.DescriptionFilter).
		text("organization_description_filter", p.OrganizationDescriptionFilter).
		text("organization_specialties_filter", p.OrganizationSpecialtiesFilter).
		text("organization_slug_filter", p.OrganizationSlugFilter).
		text("description_type", p.DescriptionType).
		text("type_filter", p.TypeFilter).
		boolean("remote", p.Remote).
		boolean("agency", p.Agency).
		text("industry_filter", p.IndustryFilter).
		text("seniority_filter", p.SeniorityFilter).
		boolean("exclude_ats_duplicate", p.ExcludeATSDuplicate).
		boolean("external_apply_url", p.ExternalApplyURL).
		boolean("directapply", p.DirectApply).
		integer("employees_lte", p.EmployeesLTE).
		integer("employees_gte", p.EmployeesGTE).
		text("date_filter", p.DateFilter).
		text("order", p.Order).
		text("advanced_title_filter", p.AdvancedTitleFilter).
		text("advanced_organization_filter", p.AdvancedOrganizationFilter).
		boolean("include_ai", p.IncludeAI).
		text("ai_work_arrangement_filter", p.AIWorkArrangementFilter).
		text("ai_experience_level_filter", p.AIExperienceLevelFilter).
		boolean("ai_visa_sponsorship_filter", p.AIVisaSponsorshipFilter).
		text("ai_taxonomies_a_filter", p.AITaxonomiesAFilter).
		text("ai_taxonomies_a_primary_filter", p.AITaxonomiesAPrimaryFilter).
		text("ai_taxonomies_a_exclusion_filter", p.AITaxonomiesAExclusionFilter).
		text("ai_education_requirements_filter", p.AIEducationRequirementsFilter).
		boolean("ai_has_salary", p.AIHasSalary).
		text("organization_filter", p.OrganizationFilter)
}

// LinkedInJobsClient queries the LinkedIn Job Search API.
type LinkedInJobsClient struct {
	*Client
}

// NewLinkedInJobsClient creates a LinkedIn Job Search client.
func NewLinkedInJobsClient(apiKey, host string, httpClient *http.Client) (*LinkedInJobsClient, error) {
	if host == "" {
		host = DefaultLinkedInJobsHost
	}
	c, err := NewClient(apiKey, host, httpClient)
	if err != nil {
		return nil, err
	}
	return &LinkedInJobsClient{Client: c}, nil
}

// Jobs lists active jobs posted within window.
func (c *LinkedInJobsClient) Jobs(ctx context.Context, window model.Window, p LinkedInJobsParams) (*model.APIResponse, error) {
	var path string
	switch window {
	case model.Window24h:
		path = "/active-jb-24h"
	case model.Window7d:
		path = "/active-jb-7d"
	default:
		return nil, fmt.Errorf("linkedin jobs: unsupported window %q", window)
	}
	return c.Get(ctx, path, p.values().values())
}

// Name implements model.JobSource.
func (c *LinkedInJobsClient) Name() string { return SourceLinkedInJobs }

// SearchJobs implements model.JobSource.
func (c *LinkedInJobsClient) SearchJobs(ctx context.Context, q model.JobQuery) (*model.APIResponse, error) {
	return c.Jobs(ctx, q.Window, LinkedInJobsParams{
		Limit:             Int(q.Limit),
		Offset:            Int(0),
		TitleFilter:       q.TitleFilter,
		DescriptionType:   "text",
		DescriptionFilter: q.Keyword,
		EmployeesLTE:      q.EmployeesLTE,
		EmployeesGTE:      q.EmployeesGTE,
	})
}
