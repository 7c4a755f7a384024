package models

// Canonical records are the merged output of one research call. Required
// request fields are copied through verbatim; every optional field is either a
// provider-derived value or absent, never a placeholder.

// MovieRecord is the canonical output for a movie request.
type MovieRecord struct {
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Year        int                  `json:"year,omitempty"`
	Director    string               `json:"director,omitempty"`
	Genres      []string             `json:"genres"`
	Cast        []string             `json:"cast,omitempty"`
	Overview    string               `json:"overview,omitempty"`
	RuntimeMin  int                  `json:"runtimeMinutes,omitempty"`
	Rated       string               `json:"rated,omitempty"`
	Rating      float64              `json:"rating,omitempty"`
	PosterURL   string               `json:"posterUrl,omitempty"`
	IMDBID      string               `json:"imdbId,omitempty"`
	AvailableOn RegionalAvailability `json:"availableOn"`
	Degraded    bool                 `json:"degraded,omitempty"` // true when every provider failed
}

// SeriesRecord is the canonical output for a series request.
type SeriesRecord struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Year        int             `json:"year,omitempty"`
	Genres      []string        `json:"genres"`
	Cast        []string        `json:"cast,omitempty"`
	Overview    string          `json:"overview,omitempty"`
	Seasons     int             `json:"seasons,omitempty"`
	Status      string          `json:"status,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	PosterURL   string          `json:"posterUrl,omitempty"`
	IMDBID      string          `json:"imdbId,omitempty"`
	AvailableOn AvailabilitySet `json:"availableOn"`
	Degraded    bool            `json:"degraded,omitempty"`
}

// MusicRecord is the canonical output for a music request.
type MusicRecord struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Artist      string          `json:"artist"`
	Album       string          `json:"album,omitempty"`
	Genre       string          `json:"genre,omitempty"`
	ReleaseYear int             `json:"releaseYear,omitempty"`
	DurationSec int             `json:"durationSeconds,omitempty"`
	Lyrics      string          `json:"lyrics,omitempty"`
	ArtworkURL  string          `json:"artworkUrl,omitempty"`
	AvailableOn AvailabilitySet `json:"availableOn"`
	Degraded    bool            `json:"degraded,omitempty"`
}

// BookRecord is the canonical output for a book request.
type BookRecord struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Author      string          `json:"author,omitempty"`
	ISBN        string          `json:"isbn,omitempty"`
	Subjects    []string        `json:"subjects"`
	PublishYear int             `json:"publishYear,omitempty"`
	Pages       int             `json:"pages,omitempty"`
	Description string          `json:"description,omitempty"`
	CoverURL    string          `json:"coverUrl,omitempty"`
	AvailableOn AvailabilitySet `json:"availableOn"`
	Degraded    bool            `json:"degraded,omitempty"`
}
