package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"cityinfo/internal/models"
)

const defaultBaseURL = "https://en.wikipedia.org"

type Client struct {
	httpClient *http.Client
	baseURL    string
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

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		userAgent:  "CityInfoService/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a full-text search and returns up to five ranked hits.
func (c *Client) Search(ctx context.Context, term string) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", term)
	params.Set("srlimit", "5")

	var resp SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/w/api.php?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Query.Search, nil
}

// Summary fetches the REST page summary for title.
func (c *Client) Summary(ctx context.Context, title string) (*PageSummary, error) {
	apiURL := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	var summary PageSummary
	if err := c.getJSON(ctx, apiURL, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// IntroExtract fetches the plain-text introduction of title. When the API
// returns more than one page the extracts are joined in page id order.
func (c *Client) IntroExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("exintro", "true")
	params.Set("explaintext", "true")
	params.Set("titles", title)

	var resp ExtractResponse
	if err := c.getJSON(ctx, c.baseURL+"/w/api.php?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var parts []string
	for _, id := range ids {
		if extract := resp.Query.Pages[id].Extract; extract != "" {
			parts = append(parts, extract)
		}
	}
	return strings.Join(parts, "\n"), nil
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
