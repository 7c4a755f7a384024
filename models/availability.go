package models

import "strings"

// OfferKind is the commercial relationship for an availability entry.
type OfferKind string

const (
	OfferFree         OfferKind = "free"
	OfferSubscription OfferKind = "subscription"
	OfferRent         OfferKind = "rent"
	OfferBuy          OfferKind = "buy"
)

// AvailabilityOffer is one validated place a title can be watched, heard or bought.
// URL always points at content detail, never a search or listing page.
type AvailabilityOffer struct {
	Platform string    `json:"platform"`
	URL      string    `json:"url"`
	Kind     OfferKind `json:"kind"`
	Price    string    `json:"price,omitempty"`
}

// Key returns the offer's dedupe identity: normalized platform name + kind.
// Two offers sharing a key are the same commercial listing; the first one the
// aggregator encountered wins.
func (o AvailabilityOffer) Key() string {
	return NormalizePlatform(o.Platform) + "|" + string(o.Kind)
}

// NormalizePlatform lowercases a platform name and strips whitespace and
// punctuation so "Apple TV+" and "apple tv plus" collapse to comparable forms.
func NormalizePlatform(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AvailabilitySet groups validated offers for one entity (in one region, for movies).
type AvailabilitySet struct {
	Streaming []AvailabilityOffer `json:"streaming"`
	Purchase  []AvailabilityOffer `json:"purchase"`
}

// Empty reports whether no offer of either kind was found.
func (s AvailabilitySet) Empty() bool {
	return len(s.Streaming) == 0 && len(s.Purchase) == 0
}

// RegionalAvailability maps a lowercase ISO 3166-1 region code to that region's
// availability. Movie research produces one entry per configured region.
type RegionalAvailability map[string]AvailabilitySet
