package domain

import "context"

// GeocodeResult is one candidate returned by the external geocoding provider.
type GeocodeResult struct {
	Coordinate
	// ResultTypes are the provider's type tags for the match, e.g.
	// "locality", "administrative_area_level_2", "establishment".
	ResultTypes []string
	// PartialMatch is true when the provider could not match the full query.
	PartialMatch bool
	FormattedAddress string
}

// ErrNoResult distinguishes "the provider had nothing" from transport
// failures. Both are treated as a miss for the candidate query.
type noResultError struct{}

func (noResultError) Error() string { return "geocoder: no result" }

// ErrNoResult is returned by Geocode when the provider has no match.
var ErrNoResult error = noResultError{}

// Geocoder converts a free-text query into zero-or-one coordinate candidates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodeResult, error)
}
