package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotouch/outbound/internal/model"
)

// fakeSource returns canned responses and records the queries it saw.
type fakeSource struct {
	name    string
	resp    *model.APIResponse
	err     error
	queries []model.JobQuery
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) SearchJobs(_ context.Context, q model.JobQuery) (*model.APIResponse, error) {
	s.queries = append(s.queries, q)
	return s.resp, s.err
}

func ok(data any) *model.APIResponse {
	return &model.APIResponse{Status: 200, Data: data}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollect_MergesSameURLAcrossSources(t *testing.T) {
	linkedin := &fakeSource{name: "linkedin", resp: ok([]any{
		map[string]any{"title": "SDR", "organization": "Acme", "job_url": "HTTPS://Example.com/J/1"},
	})}
	ats := &fakeSource{name: "active_jobs_db", resp: ok(map[string]any{"data": []any{
		map[string]any{"job_title": "Sales Development Rep", "job_apply_link": " https://example.com/j/1 "},
	}})}

	merged, err := New([]model.JobSource{linkedin, ats}, discardLogger()).
		Collect(context.Background(), Query{Window: model.Window24h, Keywords: []string{"Clay"}, Limit: 10})
	require.NoError(t, err)

	require.Equal(t, 1, merged.Len())
	key := merged.Order[0]
	assert.Equal(t, "https://example.com/j/1", key)
	assert.Equal(t, "SDR", merged.Jobs[key]["title"], "first-seen body wins")

	records := merged.Records(model.Window24h, nil, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "active_jobs_db, linkedin", records[0].Sources)
	assert.Equal(t, "Clay", records[0].Keywords)
	assert.Equal(t, 1, merged.Fetched["linkedin"])
	assert.Equal(t, 1, merged.Fetched["active_jobs_db"])
}

func TestCollect_KeywordLoop(t *testing.T) {
	src := &fakeSource{name: "linkedin", resp: ok([]any{
		map[string]any{"id": "42", "title": "BDR"},
	})}

	merged, err := New([]model.JobSource{src}, discardLogger()).
		Collect(context.Background(), Query{
			Window:      model.Window7d,
			TitleFilter: "bdr",
			Keywords:    []string{"Clay", "Apollo"},
			Limit:       5,
		})
	require.NoError(t, err)

	require.Len(t, src.queries, 2)
	assert.Equal(t, "Clay", src.queries[0].Keyword)
	assert.Equal(t, "Apollo", src.queries[1].Keyword)
	assert.Equal(t, "bdr", src.queries[0].TitleFilter)
	assert.Equal(t, 5, src.queries[0].Limit)

	require.Equal(t, 1, merged.Len())
	records := merged.Records(model.Window7d, nil, nil)
	assert.Equal(t, "Apollo, Clay", records[0].Keywords)
	assert.Equal(t, "id:42", records[0].UnknownID)
}

func TestCollect_NoKeywordsIsSinglePass(t *testing.T) {
	src := &fakeSource{name: "linkedin", resp: ok([]any{
		map[string]any{"id": "1"},
	})}

	merged, err := New([]model.JobSource{src}, discardLogger()).
		Collect(context.Background(), Query{Window: model.Window24h})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	assert.Empty(t, src.queries[0].Keyword)
	assert.Equal(t, 0, merged.Keywords["id:1"].Cardinality())
	assert.Equal(t, "", merged.Records(model.Window24h, nil, nil)[0].Keywords)
}

func TestCollect_FailedSourcesAreSoft(t *testing.T) {
	bad := &fakeSource{name: "linkedin", resp: &model.APIResponse{Status: 429, Data: map[string]any{"raw": "slow down"}}}
	broken := &fakeSource{name: "jsearch", err: errors.New("connection refused")}
	good := &fakeSource{name: "active_jobs_db", resp: ok([]any{map[string]any{"id": "7"}})}

	merged, err := New([]model.JobSource{bad, broken, good}, discardLogger()).
		Collect(context.Background(), Query{Window: model.Window24h})
	require.NoError(t, err)

	assert.Equal(t, 1, merged.Len())
	require.Len(t, merged.Failures, 2)
	assert.Equal(t, 429, merged.Failures[0].Status)
	assert.Equal(t, "linkedin: status 429", merged.Failures[0].String())
	assert.Error(t, merged.Failures[1].Err)
	assert.Equal(t, []string{"id:7"}, merged.KeysFrom("active_jobs_db"))
	assert.Empty(t, merged.KeysFrom("linkedin"))
}

func TestCollect_CreatedCountsAsSuccess(t *testing.T) {
	src := &fakeSource{name: "linkedin", resp: &model.APIResponse{Status: 201, Data: []any{map[string]any{"id": "1"}}}}

	merged, err := New([]model.JobSource{src}, discardLogger()).
		Collect(context.Background(), Query{Window: model.Window24h})
	require.NoError(t, err)
	assert.Equal(t, 1, merged.Len())
	assert.Empty(t, merged.Failures)
}

func TestCollect_CancelledContext(t *testing.T) {
	src := &fakeSource{name: "linkedin", resp: ok([]any{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New([]model.JobSource{src}, discardLogger()).Collect(ctx, Query{Window: model.Window24h})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.queries)
}

func TestRecords_PreservesFirstSeenOrder(t *testing.T) {
	m := newMerged()
	m.Add(model.Job{"id": "b"}, "linkedin", "")
	m.Add(model.Job{"id": "a"}, "linkedin", "")
	m.Add(model.Job{"id": "b"}, "jsearch", "")

	lte := 200
	records := m.Records(model.Window24h, &lte, nil)
	require.Len(t, records, 2)
	assert.Equal(t, "id:b", records[0].UnknownID)
	assert.Equal(t, "id:a", records[1].UnknownID)
	assert.Equal(t, "jsearch, linkedin", records[0].Sources)
	require.NotNil(t, records[0].EmployeesLTE)
	assert.Equal(t, 200, *records[0].EmployeesLTE)
	assert.Nil(t, records[0].EmployeesGTE)
}
