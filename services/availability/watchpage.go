package availability

import (
	"bytes"
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"mediascout/services/fetch"
	"mediascout/utils"
)

// candidate is one discovered platform link before validation and matching.
type candidate struct {
	URL      string
	Platform *platform
}

// rawURLPattern pulls URL-shaped strings out of raw page source.
var rawURLPattern = regexp.MustCompile(`https?://[^\s"'<>\\]+`)

// scrapeWatchPage fetches a public watch page and harvests every embedded
// platform deep link it can find: anchor hrefs, URLs inside embedded JSON
// blobs, and raw pattern hits over the page source. The fetch goes through
// the retrier since watch pages are the block-prone targets.
func scrapeWatchPage(ctx context.Context, retrier *fetch.Retrier, pageURL string) []candidate {
	if strings.TrimSpace(pageURL) == "" {
		return nil
	}

	body, err := retrier.Do(ctx, fetch.Target{URL: pageURL, Scrape: true})
	if err != nil {
		log.Printf("[availability] watch page %s unreachable: %v", pageURL, err)
		return nil
	}

	seen := make(map[string]struct{})
	var found []candidate
	add := func(raw string) {
		raw = normalizeScrapedURL(raw)
		if raw == "" {
			return
		}
		if _, dup := seen[raw]; dup {
			return
		}
		seen[raw] = struct{}{}
		if p := platformForURL(raw); p != nil {
			found = append(found, candidate{URL: raw, Platform: p})
		}
	}

	// Anchor hrefs. Watch pages wrap outbound links in redirect paths with a
	// target URL in the query string; unwrap those too.
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			add(unwrapRedirect(href))
		})
		// Embedded JSON blobs (application/json and framework state scripts).
		doc.Find(`script[type="application/json"], script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
			collectJSONURLs(gjson.Parse(sel.Text()), add)
		})
	}

	// Raw scan catches links sitting in inline scripts; add filters them
	// against the platform table.
	for _, hit := range rawURLPattern.FindAllString(string(body), 200) {
		add(hit)
	}

	log.Printf("[availability] watch page %s yielded %d platform links", pageURL, len(found))
	return found
}

// collectJSONURLs walks arbitrary JSON and feeds every http(s) string value
// to add. Provider pages embed their availability data as framework state;
// the shape varies, the URLs don't.
func collectJSONURLs(value gjson.Result, add func(string)) {
	switch {
	case value.IsObject() || value.IsArray():
		value.ForEach(func(_, v gjson.Result) bool {
			collectJSONURLs(v, add)
			return true
		})
	case value.Type == gjson.String:
		if s := value.String(); strings.HasPrefix(s, "http") {
			add(s)
		}
	}
}

// unwrapRedirect extracts the destination from tracking/redirect wrappers
// ("/r?u=https%3A%2F%2F...", "?url=..."). Non-wrapped URLs pass through.
func unwrapRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	for _, key := range []string{"u", "url", "uddg", "r", "target"} {
		if dest := u.Query().Get(key); strings.HasPrefix(dest, "http") {
			return dest
		}
	}
	return raw
}

// normalizeScrapedURL trims fragments and whitespace and requires an absolute
// http(s) URL with a plausible shape.
func normalizeScrapedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ""
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if strings.ContainsRune(raw, ' ') {
		enc, err := utils.EncodeURLWithSpaces(raw)
		if err != nil {
			return ""
		}
		raw = enc
	}
	if _, err := url.Parse(raw); err != nil {
		return ""
	}
	return raw
}
