package geonames

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cityinfo/internal/models"
)

const defaultBaseURL = "https://secure.geonames.org"

type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient builds a GeoNames client. An empty username falls back to the
// shared "demo" account, which is heavily rate limited.
func NewClient(username string, opts ...ClientOption) *Client {
	if username == "" {
		username = "demo"
	}
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		username:   username,
		userAgent:  "CityInfoService/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks up populated places named name, ordered by population.
// countryCode narrows the search when non-empty.
func (c *Client) Search(ctx context.Context, name, countryCode string) ([]Geoname, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("maxRows", "10")
	params.Set("username", c.username)
	params.Set("type", "json")
	params.Set("featureClass", "P")
	params.Set("orderby", "population")
	if countryCode != "" {
		params.Set("country", countryCode)
	}

	var resp SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/searchJSON?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != nil {
		return nil, fmt.Errorf("%w: geonames status %d: %s", models.ErrUpstreamUnavailable, resp.Status.Value, resp.Status.Message)
	}
	return resp.Geonames, nil
}

// Get fetches the detail record of a single geoname id.
func (c *Client) Get(ctx context.Context, geonameID int64) (*Geoname, error) {
	params := url.Values{}
	params.Set("geonameId", strconv.FormatInt(geonameID, 10))
	params.Set("username", c.username)
	params.Set("type", "json")

	var g Geoname
	if err := c.getJSON(ctx, c.baseURL+"/getJSON?"+params.Encode(), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP error! status: %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
