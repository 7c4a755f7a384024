package research

import (
	"context"
	"fmt"
	"log"

	"github.com/sourcegraph/conc"

	"mediascout/models"
	"mediascout/services/availability"
	"mediascout/services/books"
	"mediascout/services/fetch"
	"mediascout/services/metadata"
	"mediascout/services/music"
)

// metadataSource is the movie/series provider surface the orchestrator uses.
type metadataSource interface {
	Movie(ctx context.Context, title string, year int) (*metadata.TitleInfo, error)
	Series(ctx context.Context, title string, year int) (*metadata.TitleInfo, error)
	Extras(ctx context.Context, title, imdbID string, year int) (*metadata.ExtraInfo, error)
	WatchProviders(ctx context.Context, kind models.MediaKind, tmdbID int64, region string) (*models.WatchProviderListing, error)
}

type musicSource interface {
	Track(ctx context.Context, title, artist string) (*music.TrackInfo, error)
	AltTrack(ctx context.Context, title, artist string) (*music.AltTrackInfo, error)
	Lyrics(ctx context.Context, artist, title string) (string, error)
}

type bookSource interface {
	Book(ctx context.Context, title, author, isbn string) (*books.BookInfo, error)
	Volume(ctx context.Context, title, author, isbn string) (*books.VolumeInfo, error)
}

var (
	_ metadataSource = (*metadata.Service)(nil)
	_ musicSource    = (*music.Service)(nil)
	_ bookSource     = (*books.Service)(nil)
)

// Service is the multi-source orchestrator: per entity kind it launches the
// independent provider queries concurrently, waits for every one to settle,
// and merges the settled outcomes into one canonical record. Provider
// failures never propagate; the worst case is a record carrying only the
// request-supplied fields.
type Service struct {
	meta    metadataSource
	music   musicSource
	books   bookSource
	agg     *availability.Aggregator
	regions *availability.RegionIterator
}

func NewService(meta metadataSource, musicSvc musicSource, booksSvc bookSource, agg *availability.Aggregator, regions *availability.RegionIterator) *Service {
	return &Service{
		meta:    meta,
		music:   musicSvc,
		books:   booksSvc,
		agg:     agg,
		regions: regions,
	}
}

// Research dispatches a validated request to its kind's pipeline.
func (s *Service) Research(ctx context.Context, req models.ResearchRequest) (any, error) {
	switch req.Kind {
	case models.KindMovie:
		return s.Movie(ctx, req), nil
	case models.KindSeries:
		return s.Series(ctx, req), nil
	case models.KindMusic:
		return s.Music(ctx, req), nil
	case models.KindBook:
		return s.Book(ctx, req), nil
	default:
		return nil, fmt.Errorf("unsupported research kind %q", req.Kind)
	}
}

// Movie researches a movie: TMDB resolves identity first (the other queries
// key off its IDs), then OMDb extras and per-region availability run
// concurrently and settle independently.
func (s *Service) Movie(ctx context.Context, req models.ResearchRequest) *models.MovieRecord {
	primary := settleOf(func() (*metadata.TitleInfo, error) {
		return s.meta.Movie(ctx, req.Title, req.Year)
	})

	var imdbID string
	var tmdbID int64
	if primary.OK() {
		imdbID = primary.Value.IMDBID
		tmdbID = primary.Value.TMDBID
	}

	var extras models.Outcome[*metadata.ExtraInfo]
	var avail models.RegionalAvailability

	var wg conc.WaitGroup
	wg.Go(func() {
		extras = settleOf(func() (*metadata.ExtraInfo, error) {
			return s.meta.Extras(ctx, req.Title, imdbID, req.Year)
		})
	})
	wg.Go(func() {
		avail = s.regions.Run(ctx, func(region string) availability.Request {
			return availability.Request{
				Title:   req.Title,
				Year:    req.Year,
				Listing: s.movieListing(tmdbID, region),
			}
		})
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[research] movie %q fan-out panicked: %v", req.Title, r.String())
	}

	rec := mergeMovie(req, primary, extras, avail)
	logDegraded(req, rec.Degraded, primary.Err, extras.Err)
	return rec
}

// Series researches a series. Availability is single-pass (no region loop):
// scraped series pages are far less region-partitioned than movie storefronts.
func (s *Service) Series(ctx context.Context, req models.ResearchRequest) *models.SeriesRecord {
	primary := settleOf(func() (*metadata.TitleInfo, error) {
		return s.meta.Series(ctx, req.Title, req.Year)
	})

	var imdbID string
	var tmdbID int64
	if primary.OK() {
		imdbID = primary.Value.IMDBID
		tmdbID = primary.Value.TMDBID
	}

	var extras models.Outcome[*metadata.ExtraInfo]
	var avail models.AvailabilitySet

	var wg conc.WaitGroup
	wg.Go(func() {
		extras = settleOf(func() (*metadata.ExtraInfo, error) {
			return s.meta.Extras(ctx, req.Title, imdbID, req.Year)
		})
	})
	wg.Go(func() {
		avail = s.agg.Aggregate(ctx, availability.Request{
			Title:   req.Title,
			Year:    req.Year,
			Listing: s.seriesListing(tmdbID),
		})
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[research] series %q fan-out panicked: %v", req.Title, r.String())
	}

	rec := mergeSeries(req, primary, extras, avail)
	logDegraded(req, rec.Degraded, primary.Err, extras.Err)
	return rec
}

// Music researches a song. All three providers are independent of each other
// and run fully concurrently.
func (s *Service) Music(ctx context.Context, req models.ResearchRequest) *models.MusicRecord {
	var (
		primary   models.Outcome[*music.TrackInfo]
		secondary models.Outcome[*music.AltTrackInfo]
		lyrics    models.Outcome[string]
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		primary = settleOf(func() (*music.TrackInfo, error) {
			return s.music.Track(ctx, req.Title, req.Artist)
		})
	})
	wg.Go(func() {
		secondary = settleOf(func() (*music.AltTrackInfo, error) {
			return s.music.AltTrack(ctx, req.Title, req.Artist)
		})
	})
	wg.Go(func() {
		lyrics = settleOf(func() (string, error) {
			return s.music.Lyrics(ctx, req.Artist, req.Title)
		})
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[research] music %q fan-out panicked: %v", req.Title, r.String())
	}

	avail := availability.BuildSet(musicOffers(primary, secondary)...)
	rec := mergeMusic(req, primary, secondary, lyrics, avail)
	logDegraded(req, rec.Degraded, primary.Err, secondary.Err, lyrics.Err)
	return rec
}

// Book researches a book; both catalog providers run concurrently.
func (s *Service) Book(ctx context.Context, req models.ResearchRequest) *models.BookRecord {
	var (
		primary   models.Outcome[*books.BookInfo]
		secondary models.Outcome[*books.VolumeInfo]
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		primary = settleOf(func() (*books.BookInfo, error) {
			return s.books.Book(ctx, req.Title, req.Author, req.ISBN)
		})
	})
	wg.Go(func() {
		secondary = settleOf(func() (*books.VolumeInfo, error) {
			return s.books.Volume(ctx, req.Title, req.Author, req.ISBN)
		})
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[research] book %q fan-out panicked: %v", req.Title, r.String())
	}

	avail := availability.BuildSet(bookOffers(secondary)...)
	rec := mergeBook(req, primary, secondary, avail)
	logDegraded(req, rec.Degraded, primary.Err, secondary.Err)
	return rec
}

// movieListing builds the per-region strategy (a) source. A zero tmdbID means
// the primary lookup failed; the listing then reports no names.
func (s *Service) movieListing(tmdbID int64, region string) availability.ListingFunc {
	if tmdbID == 0 {
		return nil
	}
	return func(ctx context.Context) (*models.WatchProviderListing, error) {
		return s.meta.WatchProviders(ctx, models.KindMovie, tmdbID, region)
	}
}

func (s *Service) seriesListing(tmdbID int64) availability.ListingFunc {
	if tmdbID == 0 {
		return nil
	}
	return func(ctx context.Context) (*models.WatchProviderListing, error) {
		return s.meta.WatchProviders(ctx, models.KindSeries, tmdbID, "us")
	}
}

// musicOffers turns provider-supplied store links into offer candidates.
// BuildSet validates and deduplicates them like any scraped link.
func musicOffers(primary models.Outcome[*music.TrackInfo], secondary models.Outcome[*music.AltTrackInfo]) []models.AvailabilityOffer {
	var offers []models.AvailabilityOffer
	if primary.OK() && primary.Value != nil && primary.Value.StoreURL != "" {
		offers = append(offers, models.AvailabilityOffer{
			Platform: "Apple Music",
			URL:      primary.Value.StoreURL,
			Kind:     models.OfferSubscription,
		})
		if primary.Value.Price != "" {
			offers = append(offers, models.AvailabilityOffer{
				Platform: "iTunes Store",
				URL:      primary.Value.StoreURL,
				Kind:     models.OfferBuy,
				Price:    primary.Value.Price,
			})
		}
	}
	if secondary.OK() && secondary.Value != nil && secondary.Value.Link != "" {
		offers = append(offers, models.AvailabilityOffer{
			Platform: "Deezer",
			URL:      secondary.Value.Link,
			Kind:     models.OfferSubscription,
		})
	}
	return offers
}

func bookOffers(secondary models.Outcome[*books.VolumeInfo]) []models.AvailabilityOffer {
	var offers []models.AvailabilityOffer
	if secondary.OK() && secondary.Value != nil && secondary.Value.BuyLink != "" {
		offers = append(offers, models.AvailabilityOffer{
			Platform: "Google Play Books",
			URL:      secondary.Value.BuyLink,
			Kind:     models.OfferBuy,
			Price:    secondary.Value.Price,
		})
	}
	return offers
}

// settleOf runs one provider query and captures its result as a settled
// outcome, the structural equivalent of catching everything at the boundary.
func settleOf[T any](f func() (T, error)) models.Outcome[T] {
	v, err := f()
	if err != nil {
		return models.Failed[T](err)
	}
	return models.Settled(v)
}

// logDegraded records the only condition the engine ever flags upward: every
// provider for an entity failed and the record carries request fields only.
func logDegraded(req models.ResearchRequest, degraded bool, errs ...error) {
	if !degraded {
		return
	}
	log.Printf("[research] %s %q: %v, returning request-only record", req.Kind, req.Title, fetch.ErrAllProvidersFailed)
	for _, err := range errs {
		if err != nil {
			log.Printf("[research]   provider failure: %v", err)
		}
	}
}
