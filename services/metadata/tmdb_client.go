package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mediascout/models"
	"mediascout/services/fetch"
)

const tmdbDefaultBaseURL = "https://api.themoviedb.org/3"

// Minimal TMDB v3 client (search, detail and watch-provider endpoints we need).

type tmdbClient struct {
	apiKey  string
	baseURL string
	fetcher *fetch.Client
}

func newTMDBClient(apiKey string, fetcher *fetch.Client) *tmdbClient {
	if fetcher == nil {
		fetcher = fetch.NewClient(nil, nil)
	}
	return &tmdbClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: tmdbDefaultBaseURL,
		fetcher: fetcher,
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c.apiKey != ""
}

func (c *tmdbClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.isConfigured() {
		return fetch.ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	payload, err := c.fetcher.Do(ctx, fetch.Target{
		URL: fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode()),
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &fetch.ProtocolError{Provider: "tmdb", Message: fmt.Sprintf("decode %s: %v", path, err)}
	}
	return nil
}

type tmdbSearchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Name         string `json:"name"` // TV search uses "name"
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
}

type tmdbDetailResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime         int     `json:"runtime"`
	NumberOfSeasons int     `json:"number_of_seasons"`
	Status          string  `json:"status"`
	VoteAverage     float64 `json:"vote_average"`
	PosterPath      string  `json:"poster_path"`
	ReleaseDate     string  `json:"release_date"`
	FirstAirDate    string  `json:"first_air_date"`
	IMDBID          string  `json:"imdb_id"`
	ExternalIDs     struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// findID resolves a title (+ optional year) to a TMDB id via the search
// endpoint. mediaType is "movie" or "tv".
func (c *tmdbClient) findID(ctx context.Context, mediaType, title string, year int) (int64, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		if mediaType == "tv" {
			params.Set("first_air_date_year", strconv.Itoa(year))
		} else {
			params.Set("year", strconv.Itoa(year))
		}
	}

	var resp tmdbSearchResponse
	if err := c.get(ctx, "/search/"+mediaType, params, &resp); err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 0, fetch.ErrNoMatch
	}
	return resp.Results[0].ID, nil
}

// details fetches the full detail record including credits and external IDs
// in one round trip.
func (c *tmdbClient) details(ctx context.Context, mediaType string, id int64) (*tmdbDetailResponse, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids")

	var resp tmdbDetailResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", mediaType, id), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type tmdbWatchProvidersResponse struct {
	Results map[string]struct {
		Link     string             `json:"link"`
		Flatrate []tmdbProviderName `json:"flatrate"`
		Free     []tmdbProviderName `json:"free"`
		Ads      []tmdbProviderName `json:"ads"`
		Rent     []tmdbProviderName `json:"rent"`
		Buy      []tmdbProviderName `json:"buy"`
	} `json:"results"`
}

type tmdbProviderName struct {
	Name string `json:"provider_name"`
}

// watchProviders returns the named providers carrying a title in one region,
// plus the public watch-page URL TMDB links to. Provider names carry no deep
// link; the availability aggregator resolves those separately.
func (c *tmdbClient) watchProviders(ctx context.Context, mediaType string, id int64, region string) (*models.WatchProviderListing, error) {
	var resp tmdbWatchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil, &resp); err != nil {
		return nil, err
	}

	entry, ok := resp.Results[strings.ToUpper(region)]
	if !ok {
		return nil, fetch.ErrNoMatch
	}

	listing := &models.WatchProviderListing{PageURL: entry.Link}
	appendNamed := func(names []tmdbProviderName, kind models.OfferKind) {
		for _, n := range names {
			if name := strings.TrimSpace(n.Name); name != "" {
				listing.Providers = append(listing.Providers, models.NamedProvider{Name: name, Kind: kind})
			}
		}
	}
	appendNamed(entry.Free, models.OfferFree)
	appendNamed(entry.Ads, models.OfferFree)
	appendNamed(entry.Flatrate, models.OfferSubscription)
	appendNamed(entry.Rent, models.OfferRent)
	appendNamed(entry.Buy, models.OfferBuy)

	return listing, nil
}

func tmdbPosterURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w780" + path
}

func parseTMDBYear(dates ...string) int {
	for _, d := range dates {
		if len(d) >= 4 {
			if year, err := strconv.Atoi(d[:4]); err == nil && year > 1800 {
				return year
			}
		}
	}
	return 0
}
