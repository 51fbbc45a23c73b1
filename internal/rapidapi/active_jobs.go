package rapidapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autotouch/outbound/internal/model"
)

// SourceActiveJobsDB is the provenance name for Active Jobs DB results.
const SourceActiveJobsDB = "active_jobs_db"

// Ensure ActiveJobsClient implements model.JobSource.
var _ model.JobSource = (*ActiveJobsClient)(nil)

// ActiveJobsParams are the filters accepted by the Active Jobs DB API.
// Zero values are not sent.
type ActiveJobsParams struct {
	Limit                             *int
	Offset                            *int
	TitleFilter                       string
	AdvancedTitleFilter               string
	LocationFilter                    string
	DescriptionFilter                 string
	AdvancedDescriptionFilter         string
	OrganizationFilter                string
	OrganizationExclusionFilter       string
	DescriptionType                   string
	Remote                            *bool
	Source                            string
	SourceExclusion                   string
	DateFilter                        string
	AdvancedOrganizationFilter        string
	IncludeAI                         *bool
	AIEmploymentTypeFilter            string
	AIWorkArrangementFilter           string
	AITaxonomiesAFilter               string
	AITaxonomiesAPrimaryFilter        string
	AITaxonomiesAExclusionFilter      string
	AIHasSalary                       *bool
	AIExperienceLevelFilter           string
	AIVisaSponsorshipFilter           *bool
	IncludeLI                         *bool
	LIOrganizationSlugFilter          string
	LIOrganizationSlugExclusionFilter string
	LIIndustryFilter                  string
	LIOrganizationSpecialtiesFilter   string
	LIOrganizationDescriptionFilter   string
	LIOrganizationEmployeesLTE        *int
	LIOrganizationEmployeesGTE        *int
	AIEducationRequirementsFilter     string
}

func (p ActiveJobsParams) values() query {
	return query{}.
		integer("limit", p.Limit).
		integer("offset", p.Offset).
		text("title_filter", p.TitleFilter).
		text("advanced_title_filter", p.AdvancedTitleFilter).
		text("location_filter", p.LocationFilter).
		text("description_filter", p.DescriptionFilter).
		text("advanced_description_filter", p.AdvancedDescriptionFilter).
		text("organization_filter", p.OrganizationFilter).
		text("organization_exclusion_filter", p.OrganizationExclusionFilter).
		text("description_type", p.DescriptionType).
		boolean("remote", p.Remote).
		text("source", p.Source).
		text("source_exclusion", p.SourceExclusion).
		text("date_filter", p.DateFilter).
		text("advanced_organization_filter", p.AdvancedOrganizationFilter).
		boolean("include_ai", p.IncludeAI).
		text("ai_employment_type_filter", p.AIEmploymentTypeFilter).
		text("ai_work_arrangement_filter", p.AIWorkArrangementFilter).
		text("ai_taxonomies_a_filter", p.AITaxonomiesAFilter).
		text("ai_taxonomies_a_primary_filter", p.AITaxonomiesAPrimaryFilter).
		text("ai_taxonomies_a_exclusion_filter", p.AITaxonomiesAExclusionFilter).
		boolean("ai_has_salary", p.AIHasSalary).
		text("ai_experience_level_filter", p.AIExperienceLevelFilter).
		boolean("ai_visa_sponsorship_filter", p.AIVisaSponsorshipFilter).
		boolean("include_li", p.IncludeLI).
		text("li_organization_slug_filter", p.LIOrganizationSlugFilter).
		text("li_organization_slug_exclusion_filter", p.LIOrganizationSlugExclusionFilter).
		text("li_industry_filter", p.LIIndustryFilter).
		text("li_organization_specialties_filter", p.LIOrganizationSpecialtiesFilter).
		text("li_organization_description_filter", p.LIOrganizationDescriptionFilter).
		integer("li_organization_employees_lte", p.LIOrganizationEmployeesLTE).
		integer("li_organization_employees_gte", p.LIOrganizationEmployeesGTE).
		text("ai_education_requirements_filter", p.AIEducationRequirementsFilter)
}

// ActiveJobsClient queries the Active Jobs DB API (ATS-sourced listings).
type ActiveJobsClient struct {
	*Client
}

// NewActiveJobsClient creates an Active Jobs DB client.
func NewActiveJobsClient(apiKey, host string, httpClient *http.Client) (*ActiveJobsClient, error) {
	if host == "" {
		host = DefaultActiveJobsHost
	}
	c, err := NewClient(apiKey, host, httpClient)
	if err != nil {
		return nil, err
	}
	return &ActiveJobsClient{Client: c}, nil
}

// Jobs lists active ATS jobs posted within window.
func (c *ActiveJobsClient) Jobs(ctx context.Context, window model.Window, p ActiveJobsParams) (*model.APIResponse, error) {
	var path string
	switch window {
	case model.Window24h:
		path = "/active-ats-24h"
	case model.Window7d:
		path = "/active-ats-7d"
	default:
		return nil, fmt.Errorf("active jobs db: unsupported window %q", window)
	}
	return c.Get(ctx, path, p.values().values())
}

// Name implements model.JobSource.
func (c *ActiveJobsClient) Name() string { return SourceActiveJobsDB }

// SearchJobs implements model.JobSource. Headcount bounds map onto the
// LinkedIn organization filters.
func (c *ActiveJobsClient) SearchJobs(ctx context.Context, q model.JobQuery) (*model.APIResponse, error) {
	return c.Jobs(ctx, q.Window, ActiveJobsParams{
		Limit:                      Int(q.Limit),
		Offset:                     Int(0),
		TitleFilter:                q.TitleFilter,
		DescriptionType:            "text",
		DescriptionFilter:          q.Keyword,
		LIOrganizationEmployeesLTE: q.EmployeesLTE,
		LIOrganizationEmployeesGTE: q.EmployeesGTE,
	})
}
