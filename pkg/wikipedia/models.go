package wikipedia

// SearchResponse is the envelope of a list=search query.
type SearchResponse struct {
	Query SearchQuery `json:"query"`
}

// SearchQuery holds the ranked hits.
type SearchQuery struct {
	Search []SearchHit `json:"search"`
}

// SearchHit is one ranked page title.
type SearchHit struct {
	NS     int    `json:"ns"`
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// PageSummary is the subset of the REST summary payload we read.
type PageSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
}

// ExtractResponse is the envelope of a prop=extracts query.
type ExtractResponse struct {
	Query ExtractQuery `json:"query"`
}

// ExtractQuery contains the pages map keyed by page id.
type ExtractQuery struct {
	Pages map[string]ExtractPage `json:"pages"`
}

// ExtractPage carries the plain-text introduction of a page.
type ExtractPage struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}
