package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"mediascout/services/fetch"
)

const openLibraryDefaultBaseURL = "https://openlibrary.org"

// Keyless Open Library search client, the primary book metadata source.

type openLibraryClient struct {
	baseURL string
	fetcher *fetch.Client
}

func newOpenLibraryClient(fetcher *fetch.Client) *openLibraryClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &openLibraryClient{baseURL: openLibraryDefaultBaseURL, fetcher: fetcher}
}

type openLibrarySearchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
		Subject          []string `json:"subject"`
		CoverID          int64    `json:"cover_i"`
		Key              string   `json:"key"` // "/works/OL...W"
	} `json:"docs"`
}

func (c *openLibraryClient) search(ctx context.Context, title, author, isbn string) (*openLibrarySearchResponse, error) {
	params := url.Values{}
	if isbn != "" {
		params.Set("q", "isbn:"+isbn)
	} else {
		params.Set("title", title)
		if author != "" {
			params.Set("author", author)
		}
	}
	params.Set("limit", "5")

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: c.baseURL + "/search.json?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var resp openLibrarySearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &fetch.ProtocolError{Provider: "openlibrary", Message: fmt.Sprintf("decode search: %v", err)}
	}
	if resp.NumFound == 0 || len(resp.Docs) == 0 {
		return nil, fetch.ErrNoMatch
	}
	return &resp, nil
}

func openLibraryCoverURL(coverID int64) string {
	if coverID <= 0 {
		return ""
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}
