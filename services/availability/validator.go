package availability

import (
	"regexp"
	"strings"
)

// Providers routinely hand back a platform's search or listing page when they
// cannot resolve the exact title. Such links prove nothing about availability
// and are rejected outright, even when the host is a known platform.

var genericLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/search(?:[/?#]|$)`),
	regexp.MustCompile(`[?&]q=`),
	regexp.MustCompile(`[?&]query=`),
	regexp.MustCompile(`[?&]search=`),
	regexp.MustCompile(`/browse/?(?:[?#]|$)`),
	// Bare country-code landing page, e.g. netflix.com/gb or tv.apple.com/us/.
	regexp.MustCompile(`^https?://[^/]+/[a-z]{2}(?:-[a-z]{2})?/?(?:[?#].*)?$`),
	// Root landing page.
	regexp.MustCompile(`^https?://[^/]+/?(?:[?#].*)?$`),
}

// IsGenuineContentLink reports whether a URL points directly at content on a
// recognized platform. A URL is accepted only if it matches a known deep-link
// shape and matches no generic search/listing shape.
func IsGenuineContentLink(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}

	for _, generic := range genericLinkPatterns {
		if generic.MatchString(rawURL) {
			return false
		}
	}

	return platformForURL(rawURL) != nil
}
