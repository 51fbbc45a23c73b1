// Package delivery ships normalized job records to the Autotouch table
// webhook, in batches, optionally skipping keys a ledger has already seen.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/autotouch/outbound/internal/model"
)

// DefaultWebhookURL is the Autotouch table ingest endpoint used when no URL is
// configured.
const DefaultWebhookURL = "https://app.autotouch.ai/api/webhooks/tables/697a500b57002fdbff95a9cb/ingest"

// TokenHeader carries the webhook token.
const TokenHeader = "X-Autotouch-Token"

// ErrMissingToken is returned when the webhook token is not configured.
var ErrMissingToken = errors.New("missing AUTOTOUCH_TABLE_WEBHOOK_TOKEN in environment")

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 2048

// Ensure WebhookDeliverer implements model.Deliverer.
var _ model.Deliverer = (*WebhookDeliverer)(nil)

// WebhookDeliverer posts record batches to the table webhook.
type WebhookDeliverer struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookDeliverer returns a deliverer for url. An empty url falls back to
// DefaultWebhookURL; an empty token is an error.
func NewWebhookDeliverer(url, token string, httpClient *http.Client, logger *slog.Logger) (*WebhookDeliverer, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if url == "" {
		url = DefaultWebhookURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WebhookDeliverer{
		url:        url,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type webhookPayload struct {
	Records []model.Record `json:"records"`
}

// Deliver posts records as one {"records": [...]} payload. Anything other than
// 200 is returned as a *model.HTTPError carrying the response body. There is
// no retry.
func (w *WebhookDeliverer) Deliver(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	body, err := json.Marshal(webhookPayload{Records: records})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, w.token)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("post to webhook: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       string(text),
		})
	}

	w.logger.Debug("webhook batch accepted", "records", len(records))
	return nil
}

// parseRetryAfter parses a Retry-After header in seconds. Returns zero if
// absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Chunk splits records into consecutive batches of at most size. A size below
// one yields a single batch.
func Chunk(records []model.Record, size int) [][]model.Record {
	if len(records) == 0 {
		return nil
	}
	if size < 1 {
		size = len(records)
	}
	batches := make([][]model.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end])
	}
	return batches
}
