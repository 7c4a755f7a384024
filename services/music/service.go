package music

import (
	"context"
	"fmt"

	"mediascout/services/fetch"
)

// Service fronts the music providers: iTunes Search (primary), Deezer
// (secondary) and a lyrics lookup. All three are keyless.
type Service struct {
	itunes *itunesClient
	deezer *deezerClient
	lyrics *lyricsClient
}

func NewService(fetcher *fetch.Client) *Service {
	return &Service{
		itunes: newITunesClient(fetcher),
		deezer: newDeezerClient(fetcher),
		lyrics: newLyricsClient(fetcher),
	}
}

// TrackInfo is the iTunes projection consumed by the merge engine. StoreURL
// is an Apple Music deep link usable as a purchase offer.
type TrackInfo struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	ReleaseYear int
	DurationSec int
	ArtworkURL  string
	StoreURL    string
	Price       string
}

// AltTrackInfo is the Deezer projection. Link is a deezer.com deep link
// usable as a streaming offer.
type AltTrackInfo struct {
	Title       string
	Artist      string
	Album       string
	DurationSec int
	Link        string
	CoverURL    string
}

// Track resolves a song against iTunes Search.
func (s *Service) Track(ctx context.Context, title, artist string) (*TrackInfo, error) {
	resp, err := s.itunes.search(ctx, title, artist)
	if err != nil {
		return nil, err
	}

	best := resp.Results[0]
	info := &TrackInfo{
		Title:       best.TrackName,
		Artist:      best.ArtistName,
		Album:       best.CollectionName,
		Genre:       best.PrimaryGenreName,
		ReleaseYear: parseReleaseYear(best.ReleaseDate),
		DurationSec: best.TrackTimeMillis / 1000,
		ArtworkURL:  best.ArtworkURL100,
		StoreURL:    best.TrackViewURL,
	}
	if best.TrackPrice > 0 && best.Currency != "" {
		info.Price = fmt.Sprintf("%.2f %s", best.TrackPrice, best.Currency)
	}
	return info, nil
}

// AltTrack resolves a song against Deezer.
func (s *Service) AltTrack(ctx context.Context, title, artist string) (*AltTrackInfo, error) {
	resp, err := s.deezer.search(ctx, title, artist)
	if err != nil {
		return nil, err
	}

	best := resp.Data[0]
	return &AltTrackInfo{
		Title:       best.Title,
		Artist:      best.Artist.Name,
		Album:       best.Album.Title,
		DurationSec: best.Duration,
		Link:        best.Link,
		CoverURL:    best.Album.Cover,
	}, nil
}

// Lyrics looks up the song text. ErrNoMatch is the normal miss outcome.
func (s *Service) Lyrics(ctx context.Context, artist, title string) (string, error) {
	return s.lyrics.lookup(ctx, artist, title)
}
