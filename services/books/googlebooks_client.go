package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mediascout/services/fetch"
)

const googleBooksDefaultBaseURL = "https://www.googleapis.com/books/v1"

// Google Books client, the secondary book source. Works keyless at a reduced
// quota; an API key raises it. Its buy links are Play Store deep links.

type googleBooksClient struct {
	apiKey  string
	baseURL string
	fetcher *fetch.Client
}

func newGoogleBooksClient(apiKey string, fetcher *fetch.Client) *googleBooksClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &googleBooksClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: googleBooksDefaultBaseURL,
		fetcher: fetcher,
	}
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			Categories          []string `json:"categories"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
		SaleInfo struct {
			Saleability string `json:"saleability"`
			BuyLink     string `json:"buyLink"`
			ListPrice   struct {
				Amount       float64 `json:"amount"`
				CurrencyCode string  `json:"currencyCode"`
			} `json:"listPrice"`
		} `json:"saleInfo"`
	} `json:"items"`
}

func (c *googleBooksClient) search(ctx context.Context, title, author, isbn string) (*googleBooksResponse, error) {
	var q string
	if isbn != "" {
		q = "isbn:" + isbn
	} else {
		q = "intitle:" + title
		if author != "" {
			q += " inauthor:" + author
		}
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "5")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: c.baseURL + "/volumes?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var resp googleBooksResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &fetch.ProtocolError{Provider: "googlebooks", Message: fmt.Sprintf("decode volumes: %v", err)}
	}
	if resp.TotalItems == 0 || len(resp.Items) == 0 {
		return nil, fetch.ErrNoMatch
	}
	return &resp, nil
}
