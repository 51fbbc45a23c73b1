package jobs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autotouch/outbound/internal/model"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		job  model.Job
		want string
	}{
		{
			name: "provider id wins",
			job:  model.Job{"id": " ABC-123 ", "job_apply_link": "https://x.test/1"},
			want: "id:abc-123",
		},
		{
			name: "id precedence follows key order",
			job:  model.Job{"job_id": "second", "urn": "last"},
			want: "id:second",
		},
		{
			name: "numeric id keeps its digits",
			job:  model.Job{"jobId": json.Number("98765")},
			want: "id:98765",
		},
		{
			name: "zero id falls through",
			job:  model.Job{"id": json.Number("0"), "job_url": "https://x.test/2"},
			want: "https://x.test/2",
		},
		{
			name: "url is trimmed and lowercased",
			job:  model.Job{"job_link": "  HTTPS://Jobs.Example.com/A  "},
			want: "https://jobs.example.com/a",
		},
		{
			name: "composite when no id or url",
			job: model.Job{
				"title":        " Sales Development Rep ",
				"company_name": "Acme",
				"job_location": "Austin, TX",
			},
			want: "sales development rep|acme|austin, tx",
		},
		{
			name: "empty record still has a key",
			job:  model.Job{},
			want: "||",
		},
		{
			name: "non-string fields do not break key",
			job:  model.Job{"title": json.Number("42"), "location": []any{"NYC", "Remote"}},
			want: "42||nyc, remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.job))
		})
	}
}

func TestKey_Deterministic(t *testing.T) {
	job := model.Job{"title": "BDR", "employer_name": "Acme", "job_city": "Boston"}
	first := Key(job)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Key(job))
	}
}

func TestPick(t *testing.T) {
	job := model.Job{
		"a": nil,
		"b": "",
		"c": []any{},
		"d": false,
		"e": "value",
	}
	assert.Equal(t, false, Pick(job, "a", "b", "c", "d", "e"))
	assert.Equal(t, "value", Pick(job, "a", "b", "c", "e"))
	assert.Nil(t, Pick(job, "a", "b", "c", "missing"))
}
