// Package rapidapi contains thin clients for the RapidAPI marketplace
// endpoints used for outbound research: job boards, Apollo title suggestions
// and LinkedIn profile data.
//
// The clients never treat a non-2xx status as an error. Callers get the status
// and the decoded body back and decide for themselves.
package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

// Default hosts per provider.
const (
	DefaultLinkedInJobsHost    = "linkedin-job-search-api.p.rapidapi.com"
	DefaultActiveJobsHost      = "active-jobs-db.p.rapidapi.com"
	DefaultJSearchHost         = "jsearch.p.rapidapi.com"
	DefaultApolloHost          = "apollo-io-no-cookies-required.p.rapidapi.com"
	DefaultLinkedInProfileHost = "fresh-linkedin-profile-data.p.rapidapi.com"
)

// ErrMissingAPIKey is returned when a client is built without an API key.
var ErrMissingAPIKey = errors.New("missing RAPID_API_KEY (or RAPIDAPI_KEY) in environment")

// Client performs authenticated requests against one RapidAPI host.
type Client struct {
	apiKey string
	host   string
	client *http.Client
}

// NewClient returns a client for host. httpClient carries the per-request
// timeout.
func NewClient(apiKey, host string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if host == "" {
		return nil, fmt.Errorf("rapidapi: host is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiKey: apiKey, host: host, client: httpClient}, nil
}

// Host returns the RapidAPI host this client talks to.
func (c *Client) Host() string { return c.host }

// Get issues a GET request with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*model.APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*model.APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*model.APIResponse, error) {
	u := url.URL{Scheme: "https", Host: c.host, Path: path}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encoding body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", method, path, err)
	}

	return &model.APIResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
		Data:   decodeBody(raw),
	}, nil
}

// decodeBody parses raw as JSON, keeping numbers as json.Number. A body that is
// not a single JSON value comes back as {"raw": text}.
func decodeBody(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err == nil {
		if _, err := dec.Token(); err == io.EOF {
			return v
		}
	}
	return map[string]any{"raw": strings.ToValidUTF8(string(raw), "\uFFFD")}
}
