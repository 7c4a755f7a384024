package research

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediascout/models"
	"mediascout/services/books"
	"mediascout/services/metadata"
	"mediascout/services/music"
)

func TestMergeMovieRequestFieldsWinVerbatim(t *testing.T) {
	req := models.ResearchRequest{
		Kind:     models.KindMovie,
		Title:    "The Matrix",
		Year:     1999,
		Director: "The Wachowskis",
		Genre:    "Cyberpunk",
	}
	primary := models.Settled(&metadata.TitleInfo{
		Title:    "The Matrix Reloaded",
		Year:     2003,
		Director: "Lana Wachowski",
		Genres:   []string{"Action", "Science Fiction"},
		Rating:   8.7,
	})
	extras := models.Settled(&metadata.ExtraInfo{
		YearText: "2003",
		Director: "Lilly Wachowski",
	})

	rec := mergeMovie(req, primary, extras, nil)

	assert.Equal(t, "The Matrix", rec.Title)
	assert.Equal(t, "the-matrix", rec.Slug)
	assert.Equal(t, 1999, rec.Year)
	assert.Equal(t, "The Wachowskis", rec.Director)
	assert.Equal(t, []string{"Cyberpunk"}, rec.Genres)
	assert.False(t, rec.Degraded)
}

func TestMergeMoviePrimaryBeatsSecondary(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMovie, Title: "Heat"}
	primary := models.Settled(&metadata.TitleInfo{
		Director:  "Michael Mann",
		Overview:  "A heist crew and a detective.",
		PosterURL: "https://image.tmdb.org/t/p/w780/heat.jpg",
		Rating:    8.3,
	})
	extras := models.Settled(&metadata.ExtraInfo{
		Director:   "Someone Else",
		Plot:       "Other plot.",
		PosterURL:  "https://m.media-amazon.com/images/heat.jpg",
		RatingText: "8.2",
	})

	rec := mergeMovie(req, primary, extras, nil)

	assert.Equal(t, "Michael Mann", rec.Director)
	assert.Equal(t, "A heist crew and a detective.", rec.Overview)
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/heat.jpg", rec.PosterURL)
	assert.Equal(t, 8.3, rec.Rating)
}

func TestMergeMovieSecondaryFillsGaps(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMovie, Title: "Heat"}
	primary := models.Failed[*metadata.TitleInfo](errors.New("tmdb down"))
	extras := models.Settled(&metadata.ExtraInfo{
		YearText:    "1995",
		RuntimeText: "170 min",
		Rated:       "R",
		RatingText:  "8.2",
		Director:    "Michael Mann",
		Genres:      []string{"Crime", "Drama"},
	})

	rec := mergeMovie(req, primary, extras, nil)

	assert.Equal(t, 1995, rec.Year)
	assert.Equal(t, 170, rec.RuntimeMin)
	assert.Equal(t, "R", rec.Rated)
	assert.Equal(t, 8.2, rec.Rating)
	assert.Equal(t, "Michael Mann", rec.Director)
	assert.Equal(t, []string{"Crime", "Drama"}, rec.Genres)
	assert.False(t, rec.Degraded, "one settled provider is not degraded")
}

func TestMergeMovieListsTakenWholeNotUnioned(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMovie, Title: "Heat"}
	primary := models.Settled(&metadata.TitleInfo{
		Genres: []string{"Crime"},
		Cast:   []string{"Al Pacino", "Robert De Niro"},
	})
	extras := models.Settled(&metadata.ExtraInfo{
		Genres: []string{"Drama", "Thriller"},
		Cast:   []string{"Val Kilmer"},
	})

	rec := mergeMovie(req, primary, extras, nil)

	assert.Equal(t, []string{"Crime"}, rec.Genres)
	assert.Equal(t, []string{"Al Pacino", "Robert De Niro"}, rec.Cast)
}

func TestMergeMovieDegradedKeepsRequestFields(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMovie, Title: "Obscure Film", Year: 1977}
	primary := models.Failed[*metadata.TitleInfo](errors.New("tmdb down"))
	extras := models.Failed[*metadata.ExtraInfo](errors.New("omdb down"))

	rec := mergeMovie(req, primary, extras, nil)

	assert.True(t, rec.Degraded)
	assert.Equal(t, "Obscure Film", rec.Title)
	assert.Equal(t, "obscure-film", rec.Slug)
	assert.Equal(t, 1977, rec.Year)
	assert.Equal(t, []string{}, rec.Genres, "absent list fields stay empty, never nil")
	assert.NotNil(t, rec.AvailableOn)
	assert.Empty(t, rec.AvailableOn)
}

func TestMergeMovieUnparseableNumericsAbsent(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMovie, Title: "Heat"}
	primary := models.Failed[*metadata.TitleInfo](errors.New("tmdb down"))
	extras := models.Settled(&metadata.ExtraInfo{
		YearText:    "",
		RuntimeText: "unknown",
		RatingText:  "not rated",
	})

	rec := mergeMovie(req, primary, extras, nil)

	assert.Equal(t, 0, rec.RuntimeMin)
	assert.Equal(t, 0.0, rec.Rating)
}

func TestMergeSeries(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindSeries, Title: "The Wire"}
	primary := models.Settled(&metadata.TitleInfo{
		Year:    2002,
		Seasons: 5,
		Status:  "Ended",
		Genres:  []string{"Crime", "Drama"},
	})
	extras := models.Failed[*metadata.ExtraInfo](errors.New("omdb down"))

	rec := mergeSeries(req, primary, extras, models.AvailabilitySet{})

	assert.Equal(t, 2002, rec.Year)
	assert.Equal(t, 5, rec.Seasons)
	assert.Equal(t, "Ended", rec.Status)
	assert.False(t, rec.Degraded)
}

func TestMergeMusic(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindMusic, Title: "Paranoid Android", Artist: "Radiohead"}
	primary := models.Settled(&music.TrackInfo{
		Album:       "OK Computer",
		Genre:       "Alternative",
		ReleaseYear: 1997,
		DurationSec: 383,
		ArtworkURL:  "https://is1-ssl.mzstatic.com/image/ok-computer.jpg",
	})
	secondary := models.Settled(&music.AltTrackInfo{
		Album:       "OK Computer OKNOTOK",
		DurationSec: 386,
		CoverURL:    "https://e-cdns-images.dzcdn.net/cover.jpg",
	})
	lyrics := models.Failed[string](errors.New("no lyrics"))

	rec := mergeMusic(req, primary, secondary, lyrics, models.AvailabilitySet{})

	assert.Equal(t, "radiohead-paranoid-android", rec.Slug)
	assert.Equal(t, "OK Computer", rec.Album)
	assert.Equal(t, 383, rec.DurationSec)
	assert.Equal(t, "https://is1-ssl.mzstatic.com/image/ok-computer.jpg", rec.ArtworkURL)
	assert.Empty(t, rec.Lyrics)
	assert.False(t, rec.Degraded)
}

func TestMergeBook(t *testing.T) {
	req := models.ResearchRequest{Kind: models.KindBook, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"}
	primary := models.Settled(&books.BookInfo{
		Author:      "Ursula K. Le Guin",
		ISBN:        "9780441478125",
		Subjects:    []string{"Science fiction"},
		PublishYear: 1969,
	})
	secondary := models.Settled(&books.VolumeInfo{
		PublishYear: "1987-03-15",
		Pages:       304,
		Description: "Genly Ai's mission to Gethen.",
	})

	rec := mergeBook(req, primary, secondary, models.AvailabilitySet{})

	assert.Equal(t, "Ursula K. Le Guin", rec.Author)
	assert.Equal(t, "9780441478125", rec.ISBN)
	assert.Equal(t, 1969, rec.PublishYear, "primary provider year wins")
	assert.Equal(t, 304, rec.Pages)
	assert.Equal(t, []string{"Science fiction"}, rec.Subjects)
	assert.False(t, rec.Degraded)
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"136 min", 136},
		{"2010", 2010},
		{"2010-2015", 2010},
		{"approx. 90 minutes", 90},
		{"", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLeadingInt(tt.raw), "parseLeadingInt(%q)", tt.raw)
	}
}

func TestParseLenientFloat(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"8.7", 8.7},
		{"8,7", 8.7},
		{"1,234.5", 1234.5},
		{" 7.1 ", 7.1},
		{"", 0},
		{"N/A", 0},
		{"-3", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLenientFloat(tt.raw), "parseLenientFloat(%q)", tt.raw)
	}
}
