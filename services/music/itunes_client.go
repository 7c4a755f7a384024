package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"mediascout/services/fetch"
)

const itunesDefaultBaseURL = "https://itunes.apple.com"

// Keyless iTunes Search API client. Primary music metadata source; its
// trackViewUrl doubles as an Apple Music deep link for availability.

type itunesClient struct {
	baseURL string
	fetcher *fetch.Client
}

func newITunesClient(fetcher *fetch.Client) *itunesClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &itunesClient{baseURL: itunesDefaultBaseURL, fetcher: fetcher}
}

type itunesSearchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName        string  `json:"trackName"`
		ArtistName       string  `json:"artistName"`
		CollectionName   string  `json:"collectionName"`
		PrimaryGenreName string  `json:"primaryGenreName"`
		ReleaseDate      string  `json:"releaseDate"` // RFC3339
		TrackTimeMillis  int     `json:"trackTimeMillis"`
		ArtworkURL100    string  `json:"artworkUrl100"`
		TrackViewURL     string  `json:"trackViewUrl"`
		TrackPrice       float64 `json:"trackPrice"`
		Currency         string  `json:"currency"`
	} `json:"results"`
}

func (c *itunesClient) search(ctx context.Context, title, artist string) (*itunesSearchResponse, error) {
	params := url.Values{}
	params.Set("term", artist+" "+title)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "5")

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: c.baseURL + "/search?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var resp itunesSearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &fetch.ProtocolError{Provider: "itunes", Message: fmt.Sprintf("decode search: %v", err)}
	}
	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return nil, fetch.ErrNoMatch
	}
	return &resp, nil
}

func parseReleaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1800 {
		return 0
	}
	return year
}
