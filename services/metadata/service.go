package metadata

import (
	"context"
	"log"
	"strings"

	"mediascout/models"
	"mediascout/services/fetch"
)

// Service fronts the structured movie/series metadata providers: TMDB as the
// primary source, OMDb as the secondary. Either provider may be unconfigured;
// its calls then fail with fetch.ErrNotConfigured and the caller records a
// degraded outcome.
type Service struct {
	tmdb *tmdbClient
	omdb *omdbClient
}

func NewService(tmdbAPIKey, omdbAPIKey string, fetcher *fetch.Client) *Service {
	return &Service{
		tmdb: newTMDBClient(tmdbAPIKey, fetcher),
		omdb: newOMDBClient(omdbAPIKey, fetcher),
	}
}

// TitleInfo is the narrow projection of a TMDB title consumed by the merge
// engine. Numeric fields are already typed; absent values are zero.
type TitleInfo struct {
	TMDBID     int64
	Title      string
	Year       int
	Genres     []string
	Cast       []string
	Director   string
	Overview   string
	RuntimeMin int
	Seasons    int
	Status     string
	Rating     float64
	PosterURL  string
	IMDBID     string
}

// ExtraInfo is the OMDb projection. String-formatted numerics are carried raw
// and coerced by the merge engine; a failed parse means "field absent".
type ExtraInfo struct {
	Title       string
	YearText    string
	Rated       string
	RuntimeText string
	Genres      []string
	Director    string
	Cast        []string
	Plot        string
	PosterURL   string
	RatingText  string
	IMDBID      string
}

// Movie resolves a movie title against TMDB and returns its projection.
func (s *Service) Movie(ctx context.Context, title string, year int) (*TitleInfo, error) {
	return s.titleInfo(ctx, "movie", title, year)
}

// Series resolves a series title against TMDB and returns its projection.
func (s *Service) Series(ctx context.Context, title string, year int) (*TitleInfo, error) {
	return s.titleInfo(ctx, "tv", title, year)
}

func (s *Service) titleInfo(ctx context.Context, mediaType, title string, year int) (*TitleInfo, error) {
	id, err := s.tmdb.findID(ctx, mediaType, title, year)
	if err != nil {
		return nil, err
	}

	detail, err := s.tmdb.details(ctx, mediaType, id)
	if err != nil {
		return nil, err
	}

	info := &TitleInfo{
		TMDBID:     detail.ID,
		Title:      firstNonEmpty(detail.Title, detail.Name),
		Year:       parseTMDBYear(detail.ReleaseDate, detail.FirstAirDate),
		Overview:   detail.Overview,
		RuntimeMin: detail.Runtime,
		Seasons:    detail.NumberOfSeasons,
		Status:     detail.Status,
		Rating:     detail.VoteAverage,
		PosterURL:  tmdbPosterURL(detail.PosterPath),
		IMDBID:     firstNonEmpty(detail.IMDBID, detail.ExternalIDs.IMDBID),
	}
	for _, g := range detail.Genres {
		info.Genres = append(info.Genres, g.Name)
	}
	for i, c := range detail.Credits.Cast {
		if i >= 10 {
			break
		}
		info.Cast = append(info.Cast, c.Name)
	}
	for _, crew := range detail.Credits.Crew {
		if crew.Job == "Director" {
			info.Director = crew.Name
			break
		}
	}

	return info, nil
}

// Extras queries OMDb, preferring an IMDb id resolved by TMDB over a fuzzy
// title match.
func (s *Service) Extras(ctx context.Context, title, imdbID string, year int) (*ExtraInfo, error) {
	resp, err := s.omdb.lookup(ctx, title, imdbID, year)
	if err != nil {
		return nil, err
	}

	return &ExtraInfo{
		Title:       omdbValue(resp.Title),
		YearText:    omdbValue(resp.Year),
		Rated:       omdbValue(resp.Rated),
		RuntimeText: omdbValue(resp.Runtime),
		Genres:      splitList(resp.Genre),
		Director:    omdbValue(resp.Director),
		Cast:        splitList(resp.Actors),
		Plot:        omdbValue(resp.Plot),
		PosterURL:   omdbValue(resp.Poster),
		RatingText:  omdbValue(resp.IMDBRating),
		IMDBID:      omdbValue(resp.IMDBID),
	}, nil
}

// WatchProviders returns one region's named watch providers for a resolved
// TMDB title. kind selects the movie or TV endpoint family.
func (s *Service) WatchProviders(ctx context.Context, kind models.MediaKind, tmdbID int64, region string) (*models.WatchProviderListing, error) {
	mediaType := "movie"
	if kind == models.KindSeries {
		mediaType = "tv"
	}
	listing, err := s.tmdb.watchProviders(ctx, mediaType, tmdbID, region)
	if err != nil {
		return nil, err
	}
	log.Printf("[metadata] %s/%d watch providers in %s: %d named", mediaType, tmdbID, region, len(listing.Providers))
	return listing, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
