package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotouch/outbound/internal/model"
)

func TestDedupe(t *testing.T) {
	input := []model.Job{
		{"id": "1", "title": "first"},
		{"id": "2"},
		{"id": "1", "title": "second"},
		{"job_url": "https://x.test/a"},
		{"job_apply_link": "HTTPS://X.TEST/A"},
		{},
		{},
	}

	unique, dups := Dedupe(input)

	assert.LessOrEqual(t, len(unique), len(input))
	assert.Equal(t, len(input), len(unique)+len(dups))
	require.Len(t, unique, 4)
	assert.Equal(t, "first", unique[0]["title"])

	keys := make(map[string]bool)
	for _, j := range unique {
		keys[Key(j)] = true
	}
	for _, j := range dups {
		assert.True(t, keys[Key(j)], "duplicate %v has no unique counterpart", j)
	}
}

func TestDedupe_Empty(t *testing.T) {
	unique, dups := Dedupe(nil)
	assert.Empty(t, unique)
	assert.Empty(t, dups)
}

func TestExtractJobs(t *testing.T) {
	tests := []struct {
		name string
		data any
		want int
	}{
		{name: "top-level list", data: []any{map[string]any{"id": "1"}, map[string]any{"id": "2"}}, want: 2},
		{name: "nested data", data: map[string]any{"data": []any{map[string]any{"id": "1"}}}, want: 1},
		{name: "nested jobs", data: map[string]any{"jobs": []any{map[string]any{}}}, want: 1},
		{name: "nested results", data: map[string]any{"results": []any{map[string]any{}, map[string]any{}}}, want: 2},
		{name: "raw text fallback", data: map[string]any{"raw": "<html>"}, want: 0},
		{name: "non-object entries skipped", data: []any{"x", json1(), nil}, want: 1},
		{name: "nil", data: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ExtractJobs(tt.data), tt.want)
		})
	}
}

func json1() map[string]any { return map[string]any{"id": "x"} }

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{"Clay, clay;HubSpot", "", "  ", "hubspot", "Apollo"})
	assert.Equal(t, []string{"Clay", "HubSpot", "Apollo"}, got)
	assert.Empty(t, NormalizeKeywords(nil))
}
