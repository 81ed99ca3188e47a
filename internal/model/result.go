package model

import (
	"time"

	"github.com/google/uuid"
)

// SearchResult is one item returned by a search or scrape call.
// ExtractedEntities is derived solely from Title+Snippet (or scraped HTML)
// plus the search context; the cross-verification step replaces the whole
// result rather than mutating the slice in place.
type SearchResult struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Snippet           string    `json:"snippet"`
	URL               string    `json:"url"`
	Source            string    `json:"source"`
	Confidence        int       `json:"confidence"`      // result-level trust, 0-100
	RelevanceScore    int       `json:"relevance_score"` // match quality vs. query, 0-100
	Timestamp         time.Time `json:"timestamp"`
	Query             string    `json:"query"`
	ExtractedEntities []Entity  `json:"extracted_entities,omitempty"`
}

// NewSearchResult creates a SearchResult with a fresh ID and timestamp.
func NewSearchResult(title, snippet, url, source, query string) SearchResult {
	return SearchResult{
		ID:        uuid.New().String(),
		Title:     title,
		Snippet:   snippet,
		URL:       url,
		Source:    source,
		Query:     query,
		Timestamp: time.Now().UTC(),
	}
}

// SearchContext holds the user-supplied query parameters. Name is required;
// everything else is optional and used only as a correlation anchor for
// confidence and relevance boosts.
type SearchContext struct {
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	DOB     string `json:"dob,omitempty"`
	Address string `json:"address,omitempty"`
}
