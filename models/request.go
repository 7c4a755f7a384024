package models

import "strings"

// MediaKind identifies which research pipeline handles a request.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
	KindMusic  MediaKind = "music"
	KindBook   MediaKind = "book"
)

// NormalizeKind maps loose user input ("movies", "film", "show", ...) onto a MediaKind.
// Unrecognized values return an empty kind.
func NormalizeKind(raw string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "movies", "film", "films":
		return KindMovie
	case "series", "tv", "show", "shows":
		return KindSeries
	case "music", "song", "songs", "track":
		return KindMusic
	case "book", "books":
		return KindBook
	default:
		return ""
	}
}

// ResearchRequest describes one entity to research. Kind selects the variant;
// only the fields belonging to that variant are consulted. The request is
// treated as immutable once it reaches the engine.
type ResearchRequest struct {
	Kind MediaKind `json:"kind"`

	// All kinds.
	Title string `json:"title"`

	// Movie and series.
	Year     int    `json:"year,omitempty"`
	Director string `json:"director,omitempty"`
	Genre    string `json:"genre,omitempty"`

	// Music.
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`

	// Book.
	Author string `json:"author,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}

// Validate reports whether the variant's required identifying fields are present.
// The HTTP layer rejects invalid requests before they reach the engine.
func (r ResearchRequest) Validate() bool {
	if strings.TrimSpace(r.Title) == "" {
		return false
	}
	switch r.Kind {
	case KindMovie, KindSeries, KindBook:
		return true
	case KindMusic:
		return strings.TrimSpace(r.Artist) != ""
	default:
		return false
	}
}
