package jobs

import (
	"sort"
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

var (
	domainKeys = []string{"company_domain", "organization_domain", "employer_domain", "domain"}

	websiteKeys = []string{
		"company_website", "organization_website", "employer_website",
		"company_url", "organization_url", "website", "url",
		"company_link", "employer_link",
		"company_domain", "organization_domain", "employer_domain", "domain",
	}

	companyLinkedInKeys = []string{
		"organization_url", "linkedin_org_url", "company_linkedin_url", "company_linkedin", "linkedin_url",
	}

	jobURLKeys = []string{
		"job_apply_link", "job_apply_url", "job_url", "job_link", "external_apply_url", "url",
	}

	descriptionKeys = []string{"description", "job_description", "description_text", "description_raw"}

	employeeCountKeys = []string{
		"company_employee_count", "company_size", "organization_num_employees", "organization_employees", "employees",
	}
)

// BuildRecord flattens a merged job into the webhook schema. sources and
// keywords are the provenance sets accumulated for key; they are sorted and
// joined. URL fields are made absolute whenever a raw value exists.
func BuildRecord(
	key string,
	job model.Job,
	sources []string,
	keywords []string,
	window model.Window,
	employeesLTE, employeesGTE *int,
) model.Record {
	rec := model.Record{
		UnknownID:          key,
		JobTitle:           Pick(job, TitleKeys...),
		Company:            Pick(job, CompanyKeys...),
		Location:           Pick(job, LocationKeys...),
		JobURL:             absoluteURL(Pick(job, jobURLKeys...)),
		ExternalApplyURL:   absoluteURL(Pick(job, "external_apply_url")),
		PostedAt:           Pick(job, PostedKeys...),
		Website:            absoluteURL(Pick(job, websiteKeys...)),
		CompanyDomain:      Pick(job, domainKeys...),
		CompanyLinkedInURL: Pick(job, companyLinkedInKeys...),
		JobDescription:     Pick(job, descriptionKeys...),
		EmploymentType:     Pick(job, "employment_type", "job_employment_type"),
		Seniority:          Pick(job, "seniority", "job_seniority"),
		Remote:             Pick(job, "remote_derived", "remote"),
		Sources:            joinSorted(sources),
		Keywords:           joinSorted(keywords),
		Window:             window,
		EmployeesLTE:       employeesLTE,
		EmployeesGTE:       employeesGTE,
	}
	if v := Pick(job, employeeCountKeys...); v != nil {
		rec.CompanyEmployeeCount = v
	}
	return rec
}

// AbsoluteURL prefixes https:// onto bare domains and paths.
func AbsoluteURL(raw string) string {
	if raw == "" || hasPrefixFold(raw, "http://") || hasPrefixFold(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// absoluteURL prefixes string values; anything else is passed through as is.
func absoluteURL(v any) any {
	if s, ok := v.(string); ok {
		return AbsoluteURL(s)
	}
	return v
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func joinSorted(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

// Summary is the short human-readable view of a job used in reports.
type Summary struct {
	Title    string
	Company  string
	Location string
	URL      string
	PostedAt string
}

// Summarize extracts the report fields of a raw job.
func Summarize(job model.Job) Summary {
	return Summary{
		Title:    PickString(job, TitleKeys...),
		Company:  PickString(job, CompanyKeys...),
		Location: PickString(job, LocationKeys...),
		URL:      PickString(job, URLKeys...),
		PostedAt: PickString(job, PostedKeys...),
	}
}
