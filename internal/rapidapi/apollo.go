package rapidapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/autotouch/outbound/internal/model"
)

// ApolloClient queries Apollo's job-title suggestion endpoint.
type ApolloClient struct {
	*Client
}

// NewApolloClient creates an Apollo client.
func NewApolloClient(apiKey, host string, httpClient *http.Client) (*ApolloClient, error) {
	if host == "" {
		host = DefaultApolloHost
	}
	c, err := NewClient(apiKey, host, httpClient)
	if err != nil {
		return nil, err
	}
	return &ApolloClient{Client: c}, nil
}

// SuggestJobTitles returns Apollo's title suggestions for a partial title.
func (c *ApolloClient) SuggestJobTitles(ctx context.Context, q string) (*model.APIResponse, error) {
	if strings.TrimSpace(q) == "" {
		return nil, errors.New("apollo: query is required")
	}
	return c.Get(ctx, "/suggestion_job_title", url.Values{"query": {q}})
}
