package models

import "fmt"

// Domain identifies one category of market/sentiment data.
type Domain string

const (
	DomainEquities    Domain = "equities"
	DomainFX          Domain = "fx"
	DomainCommodities Domain = "commodities"
	DomainCrypto      Domain = "crypto"
	DomainMacro       Domain = "macro"
	DomainSentiment   Domain = "sentiment"
)

// AllDomains lists every domain in canonical order.
var AllDomains = []Domain{
	DomainEquities,
	DomainFX,
	DomainCommodities,
	DomainCrypto,
	DomainMacro,
	DomainSentiment,
}

// ParseDomain validates a domain string.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	for _, known := range AllDomains {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// Source selects where the aggregator pulls data from.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// ParseSource validates a source string; empty defaults to live.
func ParseSource(s string) (Source, error) {
	switch s {
	case "", "live":
		return SourceLive, nil
	case "mock":
		return SourceMock, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// Origin records the provenance of a snapshot.
type Origin string

const (
	// OriginLive is a successful live fetch (possibly partial).
	OriginLive Origin = "live"
	// OriginMock is caller-requested mock data.
	OriginMock Origin = "mock"
	// OriginLiveDegraded is mock data substituted after the live fetch
	// failed entirely.
	OriginLiveDegraded Origin = "live_degraded"
)
