package availability

import (
	"regexp"
	"strings"

	"mediascout/models"
)

// platform describes one known content platform: the names it goes by, the
// URL shape of a genuine content deep link on its site, and the offer kind a
// bare link implies when the structured listing didn't name one.
type platform struct {
	name        string
	aliases     []string
	deepLink    *regexp.Regexp
	defaultKind models.OfferKind
}

// knownPlatforms is the fixed table of deep-link shapes the aggregator can
// verify. A URL matching none of these is never surfaced as availability.
var knownPlatforms = []platform{
	{"Netflix", nil, regexp.MustCompile(`netflix\.com/(?:[a-z-]+/)?title/\d+`), models.OfferSubscription},
	{"Amazon Prime Video", []string{"prime video", "amazon video"}, regexp.MustCompile(`(?:primevideo\.com|amazon\.[a-z.]+)/(?:gp/video/)?detail/[A-Za-z0-9]+`), models.OfferSubscription},
	{"Hulu", nil, regexp.MustCompile(`hulu\.com/(?:movie|series)/[a-z0-9-]+`), models.OfferSubscription},
	{"Disney Plus", []string{"disney+"}, regexp.MustCompile(`disneyplus\.com/(?:[a-z-]+/)?(?:movies|series|browse/entity)[/-][A-Za-z0-9-]+`), models.OfferSubscription},
	{"Max", []string{"hbo max", "hbo"}, regexp.MustCompile(`(?:max|hbomax)\.com/(?:[a-z-]+/)?(?:movies?|shows?|mini-series)/[a-z0-9-]+`), models.OfferSubscription},
	{"Apple TV", []string{"apple tv+", "apple tv plus", "itunes"}, regexp.MustCompile(`tv\.apple\.com/(?:[a-z]{2}/)?(?:movie|show)/[a-z0-9-]+`), models.OfferSubscription},
	{"Paramount Plus", []string{"paramount+"}, regexp.MustCompile(`paramountplus\.com/(?:movies|shows)/[a-z0-9_-]+`), models.OfferSubscription},
	{"Peacock", []string{"peacock premium"}, regexp.MustCompile(`peacocktv\.com/watch/asset/[a-z0-9/-]+`), models.OfferSubscription},
	{"Crunchyroll", nil, regexp.MustCompile(`crunchyroll\.com/(?:series|watch)/[A-Za-z0-9-]+`), models.OfferSubscription},
	{"Mubi", nil, regexp.MustCompile(`mubi\.com/(?:[a-z]{2}/)?films/[a-z0-9-]+`), models.OfferSubscription},
	{"Shudder", nil, regexp.MustCompile(`shudder\.com/(?:movies|series)/watch/[a-z0-9-]+`), models.OfferSubscription},
	{"Starz", nil, regexp.MustCompile(`starz\.com/[a-z]{2}/[a-z-]+/(?:movies|series)/[a-z0-9-]+`), models.OfferSubscription},
	{"BritBox", nil, regexp.MustCompile(`britbox\.com/[a-z]{2}/(?:movie|show)/[A-Za-z0-9_-]+`), models.OfferSubscription},
	{"Crave", nil, regexp.MustCompile(`crave\.ca/[a-z]{2}/(?:tv-shows|movies)/[a-z0-9-]+`), models.OfferSubscription},
	{"Stan", nil, regexp.MustCompile(`stan\.com\.au/watch/[a-z0-9-]+`), models.OfferSubscription},
	{"Now TV", []string{"now"}, regexp.MustCompile(`nowtv\.com/watch/[a-z0-9-]+`), models.OfferSubscription},
	{"Sky Store", nil, regexp.MustCompile(`skystore\.com/(?:film|product)/[a-z0-9-]+`), models.OfferRent},
	{"Canal Plus", []string{"canal+"}, regexp.MustCompile(`canalplus\.com/[a-z-]+/[a-z0-9-]+/h/\d+`), models.OfferSubscription},
	{"BBC iPlayer", nil, regexp.MustCompile(`bbc\.co\.uk/iplayer/episodes?/[a-z0-9]+`), models.OfferFree},
	{"ITVX", nil, regexp.MustCompile(`itv\.com/watch/[a-z0-9-]+/[a-zA-Z0-9]+`), models.OfferFree},
	{"Channel 4", nil, regexp.MustCompile(`channel4\.com/programmes/[a-z0-9-]+`), models.OfferFree},
	{"Tubi", []string{"tubi tv"}, regexp.MustCompile(`tubitv\.com/(?:movies|series)/\d+`), models.OfferFree},
	{"Pluto TV", nil, regexp.MustCompile(`pluto\.tv/(?:[a-z]{2}/)?on-demand/(?:movies|series)/[a-z0-9-]+`), models.OfferFree},
	{"Plex", nil, regexp.MustCompile(`watch\.plex\.tv/(?:movie|show)/[a-z0-9-]+`), models.OfferFree},
	{"Kanopy", nil, regexp.MustCompile(`kanopy\.com/[a-z]{2}/product/\d+`), models.OfferFree},
	{"YouTube", []string{"youtube premium"}, regexp.MustCompile(`youtube\.com/watch\?v=[A-Za-z0-9_-]+`), models.OfferRent},
	{"Google Play Movies", []string{"google play"}, regexp.MustCompile(`play\.google\.com/store/(?:movies|tv)/details[^ ]*`), models.OfferRent},
	{"Fandango At Home", []string{"vudu"}, regexp.MustCompile(`(?:vudu|fandangonow|athome\.fandango)\.com/(?:content/movies/details|details)/[A-Za-z0-9-]+/\d+`), models.OfferRent},
	{"Microsoft Store", nil, regexp.MustCompile(`microsoft\.com/[a-z]{2}-[a-z]{2}/p/[a-z0-9-]+/[a-z0-9]+`), models.OfferBuy},
	{"Spotify", nil, regexp.MustCompile(`open\.spotify\.com/(?:track|album)/[A-Za-z0-9]+`), models.OfferSubscription},
	{"Apple Music", nil, regexp.MustCompile(`music\.apple\.com/[a-z]{2}/(?:album|song)/[^/]+/\d+`), models.OfferSubscription},
	{"Deezer", nil, regexp.MustCompile(`deezer\.com/(?:[a-z]{2}/)?(?:track|album)/\d+`), models.OfferSubscription},
	{"Amazon", []string{"amazon.com"}, regexp.MustCompile(`amazon\.[a-z.]+/(?:[^/]+/)?dp/[A-Z0-9]{10}`), models.OfferBuy},
	{"Google Play Books", nil, regexp.MustCompile(`play\.google\.com/store/books/details[^ ]*`), models.OfferBuy},
	{"Bookshop", nil, regexp.MustCompile(`bookshop\.org/(?:p|book)/[a-z0-9-]+`), models.OfferBuy},
	{"Audible", nil, regexp.MustCompile(`audible\.[a-z.]+/pd/[A-Za-z0-9-]+`), models.OfferBuy},
	{"Barnes and Noble", []string{"barnes & noble"}, regexp.MustCompile(`barnesandnoble\.com/w/[a-z0-9-]+/\d+`), models.OfferBuy},
}

// aliasCanonical maps provider-name noise seen in structured listings onto
// the canonical platform it belongs to. Multi-brand channel storefronts are
// the main offenders.
var aliasCanonical = map[string]string{
	"paramount plus amazon channel": "Paramount Plus",
	"max amazon channel":            "Max",
	"starz amazon channel":          "Starz",
	"amc plus amazon channel":       "Amazon Prime Video",
	"paramount plus apple tv channel": "Paramount Plus",
	"starz apple tv channel":          "Starz",
	"amazon prime video with ads":     "Amazon Prime Video",
	"netflix standard with ads":       "Netflix",
	"peacock premium plus":            "Peacock",
	"youtube free":                    "YouTube",
	"fandango at home":                "Fandango At Home",
}

// findPlatform returns the table entry whose canonical name or alias matches
// a provider display name, using case-insensitive containment in either
// direction. Returns nil when nothing matches.
func findPlatform(providerName string) *platform {
	needle := strings.ToLower(strings.TrimSpace(providerName))
	if needle == "" {
		return nil
	}
	if canonical, ok := aliasCanonical[needle]; ok {
		needle = strings.ToLower(canonical)
	}

	for i := range knownPlatforms {
		p := &knownPlatforms[i]
		if nameContains(needle, strings.ToLower(p.name)) {
			return p
		}
		for _, alias := range p.aliases {
			if nameContains(needle, strings.ToLower(alias)) {
				return p
			}
		}
	}
	return nil
}

// nameContains reports substring containment in either direction. The
// heuristic over-merges occasionally ("Max" inside "HBO Max") which the alias
// table corrects for the cases that matter.
func nameContains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// platformForURL returns the table entry whose deep-link shape a URL matches.
func platformForURL(rawURL string) *platform {
	for i := range knownPlatforms {
		if knownPlatforms[i].deepLink.MatchString(rawURL) {
			return &knownPlatforms[i]
		}
	}
	return nil
}

// providerMatchesPlatform reports whether a structured listing's provider
// name and a discovered link's platform refer to the same service.
func providerMatchesPlatform(providerName string, p *platform) bool {
	if p == nil {
		return false
	}
	matched := findPlatform(providerName)
	return matched != nil && matched.name == p.name
}
