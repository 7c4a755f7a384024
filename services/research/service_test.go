package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediascout/models"
	"mediascout/services/availability"
	"mediascout/services/books"
	"mediascout/services/fetch"
	"mediascout/services/metadata"
	"mediascout/services/music"
)

type stubMetadata struct {
	movie     *metadata.TitleInfo
	series    *metadata.TitleInfo
	extras    *metadata.ExtraInfo
	listing   *models.WatchProviderListing
	err       error
	regionLog []string
}

func (s *stubMetadata) Movie(ctx context.Context, title string, year int) (*metadata.TitleInfo, error) {
	if s.movie == nil {
		return nil, s.errOr("no movie")
	}
	return s.movie, nil
}

func (s *stubMetadata) Series(ctx context.Context, title string, year int) (*metadata.TitleInfo, error) {
	if s.series == nil {
		return nil, s.errOr("no series")
	}
	return s.series, nil
}

func (s *stubMetadata) Extras(ctx context.Context, title, imdbID string, year int) (*metadata.ExtraInfo, error) {
	if s.extras == nil {
		return nil, s.errOr("no extras")
	}
	return s.extras, nil
}

func (s *stubMetadata) WatchProviders(ctx context.Context, kind models.MediaKind, tmdbID int64, region string) (*models.WatchProviderListing, error) {
	s.regionLog = append(s.regionLog, region)
	if s.listing == nil {
		return nil, s.errOr("no listing")
	}
	return s.listing, nil
}

func (s *stubMetadata) errOr(msg string) error {
	if s.err != nil {
		return s.err
	}
	return errors.New(msg)
}

type stubMusic struct {
	track *music.TrackInfo
	alt   *music.AltTrackInfo
	text  string
	err   error
}

func (s *stubMusic) Track(ctx context.Context, title, artist string) (*music.TrackInfo, error) {
	if s.track == nil {
		return nil, s.err
	}
	return s.track, nil
}

func (s *stubMusic) AltTrack(ctx context.Context, title, artist string) (*music.AltTrackInfo, error) {
	if s.alt == nil {
		return nil, s.err
	}
	return s.alt, nil
}

func (s *stubMusic) Lyrics(ctx context.Context, artist, title string) (string, error) {
	if s.text == "" {
		return "", s.err
	}
	return s.text, nil
}

type stubBooks struct {
	book   *books.BookInfo
	volume *books.VolumeInfo
	err    error
}

func (s *stubBooks) Book(ctx context.Context, title, author, isbn string) (*books.BookInfo, error) {
	if s.book == nil {
		return nil, s.err
	}
	return s.book, nil
}

func (s *stubBooks) Volume(ctx context.Context, title, author, isbn string) (*books.VolumeInfo, error) {
	if s.volume == nil {
		return nil, s.err
	}
	return s.volume, nil
}

func newTestService(meta metadataSource, musicSvc musicSource, booksSvc bookSource, regions []string) *Service {
	retrier := fetch.NewRetrierWithPolicy(fetch.NewClient(nil, nil), nil, 1, time.Millisecond)
	agg := availability.NewAggregator(retrier)
	return NewService(meta, musicSvc, booksSvc, agg, availability.NewRegionIterator(agg, regions))
}

func TestResearchUnknownKind(t *testing.T) {
	svc := newTestService(&stubMetadata{}, &stubMusic{}, &stubBooks{}, []string{"us"})
	_, err := svc.Research(context.Background(), models.ResearchRequest{Kind: "podcast", Title: "x"})
	if err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestMovieAllProvidersFailedStillReturnsRecord(t *testing.T) {
	down := errors.New("provider down")
	svc := newTestService(&stubMetadata{err: down}, &stubMusic{}, &stubBooks{}, []string{"us", "gb"})

	rec := svc.Movie(context.Background(), models.ResearchRequest{
		Kind:  models.KindMovie,
		Title: "Obscure Film",
		Year:  1977,
		Genre: "Drama",
	})

	if !rec.Degraded {
		t.Error("expected degraded record when every provider fails")
	}
	if rec.Title != "Obscure Film" || rec.Year != 1977 || rec.Slug != "obscure-film" {
		t.Errorf("request fields must survive verbatim: %+v", rec)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != "Drama" {
		t.Errorf("request genre must survive: %v", rec.Genres)
	}
	if len(rec.AvailableOn) != 2 {
		t.Errorf("every configured region must appear, got %v", rec.AvailableOn)
	}
	for region, set := range rec.AvailableOn {
		if !set.Empty() || set.Streaming == nil {
			t.Errorf("region %s should carry an empty non-nil set", region)
		}
	}
}

func TestMovieQueriesEveryRegion(t *testing.T) {
	meta := &stubMetadata{
		movie: &metadata.TitleInfo{TMDBID: 603, Title: "The Matrix", Year: 1999, IMDBID: "tt0133093"},
		extras: &metadata.ExtraInfo{
			RuntimeText: "136 min",
			Rated:       "R",
		},
	}
	svc := newTestService(meta, &stubMusic{}, &stubBooks{}, []string{"us", "gb", "de"})

	rec := svc.Movie(context.Background(), models.ResearchRequest{Kind: models.KindMovie, Title: "The Matrix"})

	if rec.Degraded {
		t.Error("record should not be degraded")
	}
	if rec.Year != 1999 || rec.RuntimeMin != 136 || rec.Rated != "R" {
		t.Errorf("merged fields wrong: %+v", rec)
	}
	if len(meta.regionLog) != 3 {
		t.Errorf("expected one listing query per region, got %v", meta.regionLog)
	}
	if len(rec.AvailableOn) != 3 {
		t.Errorf("expected 3 regions in the record, got %v", rec.AvailableOn)
	}
}

func TestMovieSkipsListingWithoutIdentity(t *testing.T) {
	// TMDB failed: there is no ID to key listings off, so no region should
	// ever reach the structured provider source.
	meta := &stubMetadata{err: errors.New("down")}
	svc := newTestService(meta, &stubMusic{}, &stubBooks{}, []string{"us", "gb"})

	svc.Movie(context.Background(), models.ResearchRequest{Kind: models.KindMovie, Title: "x"})

	if len(meta.regionLog) != 0 {
		t.Errorf("listing must not be queried without a resolved ID, got %v", meta.regionLog)
	}
}

func TestSeriesSingleListingPass(t *testing.T) {
	meta := &stubMetadata{
		series: &metadata.TitleInfo{TMDBID: 1438, Title: "The Wire", Year: 2002, Seasons: 5, Status: "Ended"},
	}
	svc := newTestService(meta, &stubMusic{}, &stubBooks{}, []string{"us", "gb", "de"})

	rec := svc.Series(context.Background(), models.ResearchRequest{Kind: models.KindSeries, Title: "The Wire"})

	if rec.Seasons != 5 || rec.Status != "Ended" {
		t.Errorf("series fields wrong: %+v", rec)
	}
	// Series availability does not iterate regions.
	if len(meta.regionLog) != 1 {
		t.Errorf("expected exactly one listing query, got %v", meta.regionLog)
	}
}

func TestMusicBuildsOffersFromProviderLinks(t *testing.T) {
	svc := newTestService(&stubMetadata{}, &stubMusic{
		track: &music.TrackInfo{
			Title:    "Paranoid Android",
			Album:    "OK Computer",
			StoreURL: "https://music.apple.com/us/album/ok-computer/1097861387",
			Price:    "1.29 USD",
		},
		alt: &music.AltTrackInfo{
			Link: "https://www.deezer.com/track/138547415",
		},
	}, &stubBooks{}, []string{"us"})

	rec := svc.Music(context.Background(), models.ResearchRequest{
		Kind:   models.KindMusic,
		Title:  "Paranoid Android",
		Artist: "Radiohead",
	})

	if rec.Degraded {
		t.Error("record should not be degraded")
	}
	if len(rec.AvailableOn.Streaming) != 2 {
		t.Errorf("expected Apple Music and Deezer streaming offers, got %+v", rec.AvailableOn.Streaming)
	}
	if len(rec.AvailableOn.Purchase) != 1 || rec.AvailableOn.Purchase[0].Price != "1.29 USD" {
		t.Errorf("expected priced iTunes purchase offer, got %+v", rec.AvailableOn.Purchase)
	}
}

func TestBookPartialFailure(t *testing.T) {
	svc := newTestService(&stubMetadata{}, &stubMusic{}, &stubBooks{
		book: &books.BookInfo{Author: "Ursula K. Le Guin", ISBN: "9780441478125", PublishYear: 1969},
		err:  errors.New("google books down"),
	}, []string{"us"})

	rec := svc.Book(context.Background(), models.ResearchRequest{
		Kind:  models.KindBook,
		Title: "The Left Hand of Darkness",
	})

	if rec.Degraded {
		t.Error("one settled provider is not degraded")
	}
	if rec.Author != "Ursula K. Le Guin" || rec.PublishYear != 1969 {
		t.Errorf("merged book fields wrong: %+v", rec)
	}
	if !rec.AvailableOn.Empty() {
		t.Errorf("no purchase link means no offers, got %+v", rec.AvailableOn)
	}
}
