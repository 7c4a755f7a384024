package models

// NamedProvider is a watch provider as a structured API names it: a display
// name and an offer kind, with no deep link attached. The availability
// aggregator is responsible for resolving the name to a validated deep link.
type NamedProvider struct {
	Name string    `json:"name"`
	Kind OfferKind `json:"kind"`
}

// WatchProviderListing is one region's watch-provider answer: the named
// providers plus the public watch page that gets scraped for deep links.
type WatchProviderListing struct {
	PageURL   string
	Providers []NamedProvider
}
