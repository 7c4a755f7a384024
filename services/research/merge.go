package research

import (
	"strconv"
	"strings"

	"mediascout/models"
	"mediascout/services/books"
	"mediascout/services/metadata"
	"mediascout/services/music"
)

// Field merging is deterministic: each canonical field has a fixed precedence
// list (request input > primary provider > secondary provider) and takes the
// first non-empty value. List fields take one provider's whole list rather
// than a union, so ordering stays coherent. String-formatted numerics are
// coerced leniently; a failed parse leaves the field absent.

func mergeMovie(req models.ResearchRequest, primary models.Outcome[*metadata.TitleInfo], extras models.Outcome[*metadata.ExtraInfo], avail models.RegionalAvailability) *models.MovieRecord {
	var p metadata.TitleInfo
	if primary.OK() && primary.Value != nil {
		p = *primary.Value
	}
	var x metadata.ExtraInfo
	if extras.OK() && extras.Value != nil {
		x = *extras.Value
	}
	if avail == nil {
		avail = models.RegionalAvailability{}
	}

	rec := &models.MovieRecord{
		Title:       req.Title,
		Slug:        Slug(req.Title),
		Year:        firstInt(req.Year, p.Year, parseLeadingInt(x.YearText)),
		Director:    firstString(req.Director, p.Director, x.Director),
		Genres:      []string{},
		Cast:        firstList(p.Cast, x.Cast),
		Overview:    firstString(p.Overview, x.Plot),
		RuntimeMin:  firstInt(p.RuntimeMin, parseLeadingInt(x.RuntimeText)),
		Rated:       x.Rated,
		Rating:      firstFloat(p.Rating, parseLenientFloat(x.RatingText)),
		PosterURL:   firstString(p.PosterURL, x.PosterURL),
		IMDBID:      firstString(p.IMDBID, x.IMDBID),
		AvailableOn: avail,
		Degraded:    !primary.OK() && !extras.OK(),
	}
	if genres := firstList(requestGenres(req), p.Genres, x.Genres); genres != nil {
		rec.Genres = genres
	}
	return rec
}

func mergeSeries(req models.ResearchRequest, primary models.Outcome[*metadata.TitleInfo], extras models.Outcome[*metadata.ExtraInfo], avail models.AvailabilitySet) *models.SeriesRecord {
	var p metadata.TitleInfo
	if primary.OK() && primary.Value != nil {
		p = *primary.Value
	}
	var x metadata.ExtraInfo
	if extras.OK() && extras.Value != nil {
		x = *extras.Value
	}

	rec := &models.SeriesRecord{
		Title:       req.Title,
		Slug:        Slug(req.Title),
		Year:        firstInt(req.Year, p.Year, parseLeadingInt(x.YearText)),
		Genres:      []string{},
		Cast:        firstList(p.Cast, x.Cast),
		Overview:    firstString(p.Overview, x.Plot),
		Seasons:     p.Seasons,
		Status:      p.Status,
		Rating:      firstFloat(p.Rating, parseLenientFloat(x.RatingText)),
		PosterURL:   firstString(p.PosterURL, x.PosterURL),
		IMDBID:      firstString(p.IMDBID, x.IMDBID),
		AvailableOn: avail,
		Degraded:    !primary.OK() && !extras.OK(),
	}
	if genres := firstList(requestGenres(req), p.Genres, x.Genres); genres != nil {
		rec.Genres = genres
	}
	return rec
}

func mergeMusic(req models.ResearchRequest, primary models.Outcome[*music.TrackInfo], secondary models.Outcome[*music.AltTrackInfo], lyrics models.Outcome[string], avail models.AvailabilitySet) *models.MusicRecord {
	var p music.TrackInfo
	if primary.OK() && primary.Value != nil {
		p = *primary.Value
	}
	var d music.AltTrackInfo
	if secondary.OK() && secondary.Value != nil {
		d = *secondary.Value
	}

	rec := &models.MusicRecord{
		Title:       req.Title,
		Artist:      req.Artist,
		Slug:        Slug(req.Artist + " " + req.Title),
		Album:       firstString(req.Album, p.Album, d.Album),
		Genre:       p.Genre,
		ReleaseYear: p.ReleaseYear,
		DurationSec: firstInt(p.DurationSec, d.DurationSec),
		ArtworkURL:  firstString(p.ArtworkURL, d.CoverURL),
		AvailableOn: avail,
		Degraded:    !primary.OK() && !secondary.OK() && !lyrics.OK(),
	}
	if lyrics.OK() {
		rec.Lyrics = lyrics.Value
	}
	return rec
}

func mergeBook(req models.ResearchRequest, primary models.Outcome[*books.BookInfo], secondary models.Outcome[*books.VolumeInfo], avail models.AvailabilitySet) *models.BookRecord {
	var p books.BookInfo
	if primary.OK() && primary.Value != nil {
		p = *primary.Value
	}
	var g books.VolumeInfo
	if secondary.OK() && secondary.Value != nil {
		g = *secondary.Value
	}

	rec := &models.BookRecord{
		Title:       req.Title,
		Slug:        Slug(req.Title),
		Author:      firstString(req.Author, p.Author, g.Author),
		ISBN:        firstString(req.ISBN, p.ISBN, g.ISBN),
		Subjects:    []string{},
		PublishYear: firstInt(p.PublishYear, parseLeadingInt(g.PublishYear)),
		Pages:       g.Pages,
		Description: g.Description,
		CoverURL:    firstString(p.CoverURL, g.CoverURL),
		AvailableOn: avail,
		Degraded:    !primary.OK() && !secondary.OK(),
	}
	if subjects := firstList(p.Subjects, g.Categories); subjects != nil {
		rec.Subjects = subjects
	}
	return rec
}

// ---- precedence helpers ----

func firstString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func requestGenres(req models.ResearchRequest) []string {
	if strings.TrimSpace(req.Genre) == "" {
		return nil
	}
	return []string{req.Genre}
}

// ---- lenient numeric coercion ----

// parseLeadingInt extracts the first digit run from a string-formatted field,
// so "136 min" yields 136 and a year range yields its first year. Empty or
// digitless input yields 0.
func parseLeadingInt(raw string) int {
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(raw[start:i])
			return n
		}
	}
	if start < 0 {
		return 0
	}
	n, _ := strconv.Atoi(raw[start:])
	return n
}

// parseLenientFloat parses a decimal that may use a comma separator ("8,7")
// or carry grouping marks ("1,234.5"). Unparseable input yields 0.
func parseLenientFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	// "1,234.5" has grouping commas; "8,7" has a decimal comma.
	if strings.Contains(raw, ",") && strings.Contains(raw, ".") {
		raw = strings.ReplaceAll(raw, ",", "")
	} else if strings.Count(raw, ",") == 1 {
		raw = strings.Replace(raw, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
