package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mediascout/services/fetch"
)

const lyricsDefaultBaseURL = "https://api.lyrics.ovh/v1"

// lyricsClient looks up song lyrics by artist and title. The upstream answers
// 404 for unknown songs, which maps to ErrNoMatch.

type lyricsClient struct {
	baseURL string
	fetcher *fetch.Client
}

func newLyricsClient(fetcher *fetch.Client) *lyricsClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &lyricsClient{baseURL: lyricsDefaultBaseURL, fetcher: fetcher}
}

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

func (c *lyricsClient) lookup(ctx context.Context, artist, title string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(artist), url.PathEscape(title))

	payload, err := c.fetcher.Do(ctx, fetch.Target{URL: endpoint})
	if err != nil {
		return "", err
	}

	var resp lyricsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", &fetch.ProtocolError{Provider: "lyrics", Message: fmt.Sprintf("decode response: %v", err)}
	}

	lyrics := strings.TrimSpace(resp.Lyrics)
	if lyrics == "" {
		return "", fetch.ErrNoMatch
	}
	return lyrics, nil
}
