package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"mediascout/services/fetch"
)

const deezerDefaultBaseURL = "https://api.deezer.com"

// Keyless Deezer API client, the secondary music source. Its track links are
// deezer.com deep links.

type deezerClient struct {
	baseURL string
	fetcher *fetch.Client
}

func newDeezerClient(fetcher *fetch.Client) *deezerClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &deezerClient{baseURL: deezerDefaultBaseURL, fetcher: fetcher}
}

type deezerSearchResponse struct {
	Data []struct {
		Title    string `json:"title"`
		Duration int    `json:"duration"` // seconds
		Link     string `json:"link"`
		Artist   struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			Title string `json:"title"`
			Cover string `json:"cover_medium"`
		} `json:"album"`
	} `json:"data"`
}

func (c *deezerClient) search(ctx context.Context, title, artist string) (*deezerSearchResponse, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`artist:"%s" track:"%s"`, artist, title))
	params.Set("limit", "5")

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: c.baseURL + "/search?" + params.Encode()})
	if err != nil {
		return nil, err
	}

	var resp deezerSearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &fetch.ProtocolError{Provider: "deezer", Message: fmt.Sprintf("decode search: %v", err)}
	}
	if len(resp.Data) == 0 {
		return nil, fetch.ErrNoMatch
	}
	return &resp, nil
}
