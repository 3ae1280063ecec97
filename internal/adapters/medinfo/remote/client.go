package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medication-tracker/internal/platform/httpclient"
	"medication-tracker/internal/ports/medinfo"
)

var (
	ErrNotConfigured = errors.New("medinfo client not configured")
	ErrUnauthorized  = errors.New("medinfo unauthorized")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("medinfo: %w", err)
	}
	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

// describeResponse: GET /v1/medications?name=... => {"name": "...", "description": "..."}
type describeResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Describe(ctx context.Context, name string) (medinfo.Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return medinfo.Info{}, medinfo.ErrInvalidInput
	}
	if c == nil || c.http == nil {
		return medinfo.Info{}, ErrNotConfigured
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{c.apiKeyHeader: c.apiKey}
	}

	var out describeResponse
	err := c.http.DoJSON(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/v1/medications",
		Query:   url.Values{"name": {name}},
		Headers: headers,
		Out:     &out,
	})
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return medinfo.Info{}, fmt.Errorf("%w: %w", medinfo.ErrUnavailable, ErrUnauthorized)
			}
		}
		return medinfo.Info{}, fmt.Errorf("%w: %v", medinfo.ErrUnavailable, err)
	}

	if strings.TrimSpace(out.Description) == "" {
		return medinfo.Info{}, fmt.Errorf("%w: empty description", medinfo.ErrUnavailable)
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = name
	}
	return medinfo.Info{
		Name:        out.Name,
		Description: out.Description,
		Source:      "remote",
	}, nil
}
