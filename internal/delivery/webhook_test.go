package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autotouch/outbound/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}


func sampleRecord(key, title string) model.Record {
	return model.Record{
		UnknownID: key,
		JobTitle:  title,
		Company:   "Acme",
		JobURL:    "https://example.com/jobs/" + key,
		Sources:   "linkedin",
		Window:    model.Window24h,
	}
}

func TestNewWebhookDeliverer_RequiresToken(t *testing.T) {
	if _, err := NewWebhookDeliverer("", "", nil, discardLogger()); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	d, err := NewWebhookDeliverer("", "tok", nil, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if d.url != DefaultWebhookURL {
		t.Errorf("expected default url, got %s", d.url)
	}
}

func TestWebhookDeliverer_EmptyBatch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	d, _ := NewWebhookDeliverer(srv.URL, "tok", srv.Client(), discardLogger())
	if err := d.Deliver(context.Background(), nil); err != nil {
		t.Errorf("Deliver(nil) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestWebhookDeliverer_PostsRecords(t *testing.T) {
	var body []byte
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		header = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d, _ := NewWebhookDeliverer(srv.URL, "s3cret", srv.Client(), discardLogger())
	records := []model.Record{sampleRecord("id:1", "SDR"), sampleRecord("id:2", "BDR")}
	if err := d.Deliver(context.Background(), records); err != nil {
		t.Fatalf("Deliver() = %v, want nil", err)
	}

	if got := header.Get(TokenHeader); got != "s3cret" {
		t.Errorf("token header = %q", got)
	}
	if got := header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}

	var payload struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(payload.Records))
	}
	first := payload.Records[0]
	if first["unknown_id"] != "id:1" || first["job_title"] != "SDR" || first["window"] != "24h" {
		t.Errorf("unexpected record %v", first)
	}
	if _, ok := first["employees_lte"]; ok {
		t.Error("unset employees_lte must be omitted")
	}
	if v, ok := first["website"]; !ok || v != nil {
		t.Errorf("website must be present as null, got %v", v)
	}
}

func TestWebhookDeliverer_NonOKIsHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"created is not accepted", http.StatusCreated},
		{"unauthorized", http.StatusUnauthorized},
		{"server error", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(tt.status)
				w.Write([]byte("bad token"))
			}))
			defer srv.Close()

			d, _ := NewWebhookDeliverer(srv.URL, "tok", srv.Client(), discardLogger())
			err := d.Deliver(context.Background(), []model.Record{sampleRecord("id:1", "SDR")})

			var httpErr *model.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *model.HTTPError, got %v", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if httpErr.Body != "bad token" {
				t.Errorf("body = %q", httpErr.Body)
			}
			if httpErr.RetryAfter != 30*time.Second {
				t.Errorf("retry after = %v", httpErr.RetryAfter)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	records := make([]model.Record, 5)
	for i := range records {
		records[i] = sampleRecord(string(rune('a'+i)), "SDR")
	}

	tests := []struct {
		name  string
		size  int
		sizes []int
	}{
		{"even split", 5, []int{5}},
		{"remainder", 2, []int{2, 2, 1}},
		{"larger than input", 100, []int{5}},
		{"zero size is one batch", 0, []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Chunk(records, tt.size)
			if len(batches) != len(tt.sizes) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.sizes))
			}
			for i, b := range batches {
				if len(b) != tt.sizes[i] {
					t.Errorf("batch %d has %d records, want %d", i, len(b), tt.sizes[i])
				}
			}
		})
	}

	if Chunk(nil, 10) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"120", 120 * time.Second},
		{"-1", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogDeliverer_NeverFails(t *testing.T) {
	d := NewLogDeliverer(discardLogger())
	records := []model.Record{sampleRecord("id:1", "SDR"), {UnknownID: "x"}}
	if err := d.Deliver(context.Background(), records); err != nil {
		t.Errorf("Deliver() = %v, want nil", err)
	}
}
