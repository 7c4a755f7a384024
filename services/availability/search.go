package availability

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mediascout/services/fetch"
)

const searchDefaultBaseURL = "https://html.duckduckgo.com/html/"

// searchClient runs the targeted-lookup strategy: a search-engine query for a
// named platform that the watch-page scrape could not pin to a deep link.
// This is the last and least reliable strategy, so it only fires for
// providers the structured listing explicitly named.
type searchClient struct {
	baseURL string
	retrier *fetch.Retrier
}

func newSearchClient(retrier *fetch.Retrier) *searchClient {
	return &searchClient{baseURL: searchDefaultBaseURL, retrier: retrier}
}

// findDeepLink searches for a content page of platformName for the given
// title. Only a result that validates as a deep link on that same platform is
// returned; anything else is treated as no evidence.
func (c *searchClient) findDeepLink(ctx context.Context, platformName, title string, year int) (string, error) {
	query := fmt.Sprintf("%s %s", platformName, title)
	if year > 0 {
		query = fmt.Sprintf("%s %d", query, year)
	}

	endpoint := c.baseURL + "?q=" + url.QueryEscape(query)
	body, err := c.retrier.Do(ctx, fetch.Target{URL: endpoint, Scrape: true})
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", &fetch.ProtocolError{Provider: "search", Message: fmt.Sprintf("parse results: %v", err)}
	}

	var deepLink string
	doc.Find("a.result__a, a.result__url, h2 a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		resolved := normalizeScrapedURL(unwrapRedirect(href))
		if resolved == "" || !IsGenuineContentLink(resolved) {
			return true
		}
		// A link on some other platform is not evidence for this one.
		if !providerMatchesPlatform(platformName, platformForURL(resolved)) {
			return true
		}
		deepLink = resolved
		return false
	})

	if deepLink == "" {
		return "", fetch.ErrNoMatch
	}
	log.Printf("[availability] targeted lookup resolved %s to %s", platformName, deepLink)
	return deepLink, nil
}
