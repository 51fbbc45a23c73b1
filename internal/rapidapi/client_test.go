package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autotouch/outbound/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// testClient returns an http.Client that sends every request to srv,
// regardless of the host it was built for.
func testClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

// recorder captures the last request a test server received.
type recorder struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.header = r.Header.Clone()
		rec.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestNewClient_MissingKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		if _, err := NewClient(key, DefaultJSearchHost, nil); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("key %q: expected ErrMissingAPIKey, got %v", key, err)
		}
	}
	if _, err := NewLinkedInJobsClient("", "", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey from provider constructor, got %v", err)
	}
}

func TestNewClient_DefaultHosts(t *testing.T) {
	li, err := NewLinkedInJobsClient("k", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if li.Host() != DefaultLinkedInJobsHost {
		t.Errorf("expected default host, got %s", li.Host())
	}
	ap, err := NewApolloClient("k", "apollo.example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ap.Host() != "apollo.example.com" {
		t.Errorf("expected overridden host, got %s", ap.Host())
	}
}

func TestGet_SendsHeadersAndDecodesJSON(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"data":[{"id":12345678901234567}]}`)

	c, err := NewClient("secret", "jobs.example.com", testClient(srv))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Get(context.Background(), "/things", map[string][]string{"a": {"1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.header.Get("x-rapidapi-key") != "secret" {
		t.Errorf("expected api key header, got %q", rec.header.Get("x-rapidapi-key"))
	}
	if rec.header.Get("x-rapidapi-host") != "jobs.example.com" {
		t.Errorf("expected host header, got %q", rec.header.Get("x-rapidapi-host"))
	}
	if rec.path != "/things" || rec.query["a"][0] != "1" {
		t.Errorf("unexpected request %s %v", rec.path, rec.query)
	}
	if !resp.OK() {
		t.Errorf("expected OK response, got %d", resp.Status)
	}

	obj := resp.Data.(map[string]any)
	item := obj["data"].([]any)[0].(map[string]any)
	if n, ok := item["id"].(json.Number); !ok || n.String() != "12345678901234567" {
		t.Errorf("expected id kept as json.Number, got %#v", item["id"])
	}
}

func TestGet_NonJSONBodyFallsBackToRaw(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, "rate limited")

	c, _ := NewClient("k", "jobs.example.com", testClient(srv))
	resp, err := c.Get(context.Background(), "/x", nil)
	if err != nil {
		t.Fatalf("non-2xx must not be an error, got %v", err)
	}
	if resp.Status != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", resp.Status)
	}
	if resp.OK() {
		t.Error("429 must not be OK")
	}
	raw, ok := resp.Data.(map[string]any)["raw"]
	if !ok || raw != "rate limited" {
		t.Errorf("expected raw fallback, got %#v", resp.Data)
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantRaw bool
	}{
		{"object", `{"a":1}`, false},
		{"list", `[1,2]`, false},
		{"trailing whitespace", "{\"a\":1}\n", false},
		{"empty", ``, true},
		{"html", `<html>oops</html>`, true},
		{"two values", `{"a":1}{"b":2}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decodeBody([]byte(tt.in))
			m, isMap := v.(map[string]any)
			_, hasRaw := m["raw"]
			gotRaw := isMap && hasRaw
			if gotRaw != tt.wantRaw {
				t.Errorf("decodeBody(%q) = %#v, wantRaw=%v", tt.in, v, tt.wantRaw)
			}
		})
	}
}

func TestLinkedInJobs_WindowPathsAndDroppedParams(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	c, _ := NewLinkedInJobsClient("k", "", testClient(srv))

	_, err := c.Jobs(context.Background(), model.Window7d, LinkedInJobsParams{
		Limit:       Int(10),
		TitleFilter: "sdr",
		Remote:      Bool(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/active-jb-7d" {
		t.Errorf("expected 7d path, got %s", rec.path)
	}
	if got := rec.query["remote"]; len(got) != 1 || got[0] != "false" {
		t.Errorf("expected remote=false, got %v", got)
	}
	if _, ok := rec.query["offset"]; ok {
		t.Error("unset offset must not be sent")
	}
	if _, ok := rec.query["location_filter"]; ok {
		t.Error("empty location_filter must not be sent")
	}

	if _, err := c.Jobs(context.Background(), model.Window24h, LinkedInJobsParams{}); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/active-jb-24h" {
		t.Errorf("expected 24h path, got %s", rec.path)
	}
}

func TestLinkedInJobs_SearchJobs(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	c, _ := NewLinkedInJobsClient("k", "", testClient(srv))

	_, err := c.SearchJobs(context.Background(), model.JobQuery{
		Window:       model.Window24h,
		TitleFilter:  `sdr OR "sales development"`,
		Keyword:      "Clay",
		EmployeesLTE: Int(200),
		Limit:        50,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"limit":              "50",
		"offset":             "0",
		"title_filter":       `sdr OR "sales development"`,
		"description_type":   "text",
		"description_filter": "Clay",
		"employees_lte":      "200",
	}
	for k, v := range want {
		if got := rec.query[k]; len(got) != 1 || got[0] != v {
			t.Errorf("%s: expected %q, got %v", k, v, got)
		}
	}
	if _, ok := rec.query["employees_gte"]; ok {
		t.Error("employees_gte must not be sent")
	}
	if c.Name() != SourceLinkedInJobs {
		t.Errorf("unexpected name %s", c.Name())
	}
}

func TestActiveJobs_SearchJobs(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	c, _ := NewActiveJobsClient("k", "", testClient(srv))

	_, err := c.SearchJobs(context.Background(), model.JobQuery{
		Window:       model.Window7d,
		TitleFilter:  "bdr",
		EmployeesGTE: Int(10),
		Limit:        20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/active-ats-7d" {
		t.Errorf("expected 7d path, got %s", rec.path)
	}
	if got := rec.query["li_organization_employees_gte"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("expected li_organization_employees_gte=10, got %v", got)
	}
	if _, ok := rec.query["description_filter"]; ok {
		t.Error("empty keyword must not be sent")
	}
	if c.Name() != SourceActiveJobsDB {
		t.Errorf("unexpected name %s", c.Name())
	}
}

func TestJSearch_SearchJobs(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"data":[]}`)
	c, _ := NewJSearchClient("k", "", testClient(srv))

	_, err := c.SearchJobs(context.Background(), model.JobQuery{
		Window:      model.Window7d,
		TitleFilter: "sdr",
		Keyword:     "Clay",
		Limit:       25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/search" {
		t.Errorf("expected /search, got %s", rec.path)
	}
	if got := rec.query["query"][0]; got != "sdr Clay" {
		t.Errorf("unexpected query %q", got)
	}
	if got := rec.query["date_posted"][0]; got != "week" {
		t.Errorf("expected date_posted=week, got %q", got)
	}
	if got := rec.query["num_pages"][0]; got != "3" {
		t.Errorf("expected 3 pages, got %q", got)
	}
}

func TestJSearch_RequiresQuery(t *testing.T) {
	c, _ := NewJSearchClient("k", "", nil)
	if _, err := c.Search(context.Background(), JSearchParams{Query: " "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestApollo_SuggestJobTitles(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"titles":["sales development representative"]}`)
	c, _ := NewApolloClient("k", "", testClient(srv))

	if _, err := c.SuggestJobTitles(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty query")
	}
	if _, err := c.SuggestJobTitles(context.Background(), "sales dev"); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/suggestion_job_title" || rec.query["query"][0] != "sales dev" {
		t.Errorf("unexpected request %s %v", rec.path, rec.query)
	}
}

func TestProfile_DetailsSendsAllSectionFlags(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"data":{}}`)
	c, _ := NewProfileClient("k", "", testClient(srv))

	_, err := c.ProfileDetails(context.Background(), "https://www.linkedin.com/in/someone", ProfileSections{Skills: true})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/enrich-lead" {
		t.Errorf("unexpected path %s", rec.path)
	}
	if rec.query["include_skills"][0] != "true" {
		t.Errorf("expected include_skills=true, got %v", rec.query["include_skills"])
	}
	if rec.query["include_patents"][0] != "false" {
		t.Errorf("expected include_patents=false, got %v", rec.query["include_patents"])
	}
}

func TestProfile_PagingDefaults(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{}`)
	c, _ := NewProfileClient("k", "", testClient(srv))
	ctx := context.Background()

	if _, err := c.ProfilePosts(ctx, "https://www.linkedin.com/in/someone", PostsParams{}); err != nil {
		t.Fatal(err)
	}
	if rec.query["type"][0] != "posts" || rec.query["start"][0] != "0" {
		t.Errorf("unexpected posts query %v", rec.query)
	}
	if _, ok := rec.query["pagination_token"]; ok {
		t.Error("empty pagination_token must not be sent")
	}

	if _, err := c.PostComments(ctx, "7000000000000000000", CommentsParams{}); err != nil {
		t.Fatal(err)
	}
	if rec.query["sort_by"][0] != "Most relevant" || rec.query["page"][0] != "1" {
		t.Errorf("unexpected comments query %v", rec.query)
	}

	if _, err := c.PostReactions(ctx, "7000000000000000000", ReactionsParams{}); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/get-post-reactions" || rec.query["type"][0] != "ALL" {
		t.Errorf("unexpected reactions request %s %v", rec.path, rec.query)
	}
}

func TestProfile_SearchPostsPostsJSON(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"data":[]}`)
	c, _ := NewProfileClient("k", "", testClient(srv))

	if _, err := c.SearchPosts(context.Background(), map[string]any{"search_keywords": "clay"}); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.path != "/search-posts" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.header.Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", rec.header.Get("Content-Type"))
	}
	var body map[string]any
	if err := json.Unmarshal(rec.body, &body); err != nil || body["search_keywords"] != "clay" {
		t.Errorf("unexpected body %s", rec.body)
	}
}
