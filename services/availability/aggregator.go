package availability

import (
	"context"
	"log"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"mediascout/models"
	"mediascout/services/fetch"
)

// targetedLookupWorkers bounds strategy (c) fan-out per region.
const targetedLookupWorkers = 4

// ListingFunc supplies the structured watch-provider listing for one
// entity/region (strategy a). A failure means "no names from this source".
type ListingFunc func(ctx context.Context) (*models.WatchProviderListing, error)

// Aggregator resolves where one entity can be watched. For each request it
// runs the discovery strategies, matches named providers to validated deep
// links, and collapses duplicates by (platform, offer kind).
type Aggregator struct {
	retrier *fetch.Retrier
	search  *searchClient
}

func NewAggregator(retrier *fetch.Retrier) *Aggregator {
	return &Aggregator{
		retrier: retrier,
		search:  newSearchClient(retrier),
	}
}

// Request is one entity (in one region, for movies) to aggregate.
type Request struct {
	Title   string
	Year    int
	PageURL string      // public watch page to scrape; listing's own page URL is used when empty
	Listing ListingFunc // may be nil when no structured source exists
}

// Aggregate runs the discovery strategies and returns the deduplicated
// availability set. It never fails: every strategy error degrades to fewer
// offers.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) models.AvailabilitySet {
	var (
		mu      sync.Mutex
		listing *models.WatchProviderListing
		scraped []candidate
	)

	// Strategies (a) and (b) are independent; run them together.
	var wg conc.WaitGroup
	if req.Listing != nil {
		wg.Go(func() {
			l, err := req.Listing(ctx)
			if err != nil {
				log.Printf("[availability] provider listing for %q failed: %v", req.Title, err)
				return
			}
			mu.Lock()
			listing = l
			mu.Unlock()
		})
	}
	if req.PageURL != "" {
		wg.Go(func() {
			found := scrapeWatchPage(ctx, a.retrier, req.PageURL)
			mu.Lock()
			scraped = found
			mu.Unlock()
		})
	}
	wg.Wait()

	// When the page URL only became known through the listing, scrape it now.
	if len(scraped) == 0 && req.PageURL == "" && listing != nil && listing.PageURL != "" {
		scraped = scrapeWatchPage(ctx, a.retrier, listing.PageURL)
	}

	// Validation gate: an unvalidated link is worse than no link.
	valid := scraped[:0]
	for _, c := range scraped {
		if IsGenuineContentLink(c.URL) {
			valid = append(valid, c)
		}
	}

	var offers []models.AvailabilityOffer
	var unresolved []models.NamedProvider

	if listing != nil {
		for _, named := range listing.Providers {
			if link, ok := matchCandidate(named.Name, valid); ok {
				offers = append(offers, models.AvailabilityOffer{
					Platform: named.Name,
					URL:      link,
					Kind:     named.Kind,
				})
			} else {
				unresolved = append(unresolved, named)
			}
		}
	}

	// Strategy (c): targeted lookup only for named providers that are still
	// linkless. Dropping them without a validated link is the alternative.
	offers = append(offers, a.resolveByLookup(ctx, req, unresolved)...)

	// Validated links the listing never named are still evidence; they carry
	// the platform's default offer kind.
	for _, c := range valid {
		offers = append(offers, models.AvailabilityOffer{
			Platform: c.Platform.name,
			URL:      c.URL,
			Kind:     c.Platform.defaultKind,
		})
	}

	return BuildSet(offers...)
}

// resolveByLookup runs strategy (c) for each unresolved named provider with
// bounded concurrency, preserving listing order in the result.
func (a *Aggregator) resolveByLookup(ctx context.Context, req Request, unresolved []models.NamedProvider) []models.AvailabilityOffer {
	if len(unresolved) == 0 {
		return nil
	}

	results := make([]models.AvailabilityOffer, len(unresolved))
	p := pool.New().WithMaxGoroutines(targetedLookupWorkers)
	for i, named := range unresolved {
		p.Go(func() {
			link, err := a.search.findDeepLink(ctx, named.Name, req.Title, req.Year)
			if err != nil {
				// No evidence beats an unverified link; the provider is dropped.
				return
			}
			results[i] = models.AvailabilityOffer{Platform: named.Name, URL: link, Kind: named.Kind}
		})
	}
	p.Wait()

	var offers []models.AvailabilityOffer
	for _, offer := range results {
		if offer.URL != "" {
			offers = append(offers, offer)
		}
	}
	return offers
}

// matchCandidate links a structured provider name to a discovered candidate
// via the platform table's containment-plus-alias heuristic.
func matchCandidate(providerName string, candidates []candidate) (string, bool) {
	for _, c := range candidates {
		if providerMatchesPlatform(providerName, c.Platform) {
			return c.URL, true
		}
	}
	return "", false
}

// BuildSet validates, deduplicates and partitions offers into a set. Identity
// is (normalized platform, offer kind); the first offer seen for a key wins.
// Music and book research feed their provider-supplied links through here so
// the same validation gate applies everywhere.
func BuildSet(offers ...models.AvailabilityOffer) models.AvailabilitySet {
	set := models.AvailabilitySet{
		Streaming: []models.AvailabilityOffer{},
		Purchase:  []models.AvailabilityOffer{},
	}

	seen := make(map[string]struct{})
	for _, offer := range offers {
		if offer.Platform == "" || !IsGenuineContentLink(offer.URL) {
			continue
		}
		key := offer.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		switch offer.Kind {
		case models.OfferFree, models.OfferSubscription:
			set.Streaming = append(set.Streaming, offer)
		case models.OfferRent, models.OfferBuy:
			set.Purchase = append(set.Purchase, offer)
		}
	}
	return set
}
