package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cityinfo/internal/models"
)

const DefaultURL = "https://overpass-api.de/api/interpreter"

type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithURL overrides the interpreter endpoint. Empty keeps the default.
func WithURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.url = u
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		url:        DefaultURL,
		userAgent:  "CityInfoService/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query posts an Overpass QL program and decodes the element list.
func (c *Client) Query(ctx context.Context, ql string) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(ql))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error! status: %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return out.Elements, nil
}
