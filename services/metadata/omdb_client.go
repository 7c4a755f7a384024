package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mediascout/services/fetch"
)

const omdbDefaultBaseURL = "https://www.omdbapi.com"

// Minimal OMDb client. OMDb is the secondary metadata source: it answers with
// string-formatted fields ("136 min", "8.7") that the merge engine coerces.

type omdbClient struct {
	apiKey  string
	baseURL string
	fetcher *fetch.Client
}

func newOMDBClient(apiKey string, fetcher *fetch.Client) *omdbClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &omdbClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: omdbDefaultBaseURL,
		fetcher: fetcher,
	}
}

func (c *omdbClient) isConfigured() bool {
	return c.apiKey != ""
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"` // "136 min"
	Genre      string `json:"Genre"`   // "Action, Sci-Fi"
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	IMDBID     string `json:"imdbID"`
	Response   string `json:"Response"` // "True" | "False"
	Error      string `json:"Error"`
}

// lookup queries OMDb by IMDb id when known, falling back to title+year.
func (c *omdbClient) lookup(ctx context.Context, title, imdbID string, year int) (*omdbResponse, error) {
	if !c.isConfigured() {
		return nil, fetch.ErrNotConfigured
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if imdbID != "" {
		params.Set("i", imdbID)
	} else {
		params.Set("t", title)
		if year > 0 {
			params.Set("y", fmt.Sprintf("%d", year))
		}
	}

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: c.baseURL + "/?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var resp omdbResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &fetch.ProtocolError{Provider: "omdb", Message: fmt.Sprintf("decode response: %v", err)}
	}

	// OMDb reports misses inside a 200 body.
	if !strings.EqualFold(resp.Response, "True") {
		if strings.Contains(strings.ToLower(resp.Error), "not found") {
			return nil, fetch.ErrNoMatch
		}
		return nil, &fetch.ProtocolError{Provider: "omdb", Message: resp.Error}
	}

	return &resp, nil
}

// splitList turns OMDb's comma-joined field values into a clean slice.
func splitList(raw string) []string {
	if raw == "" || raw == "N/A" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" && v != "N/A" {
			out = append(out, v)
		}
	}
	return out
}

// omdbValue maps OMDb's "N/A" placeholder to absent.
func omdbValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "N/A" {
		return ""
	}
	return raw
}
