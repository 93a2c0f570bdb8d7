package domain

import "context"

// CatalogStore is the read-only entity catalog this service consumes.
// It is eventually consistent; classifications and coordinates are never
// written back.
type CatalogStore interface {
	// ListSystems returns one page of systems matching the filters plus the
	// total match count.
	ListSystems(ctx context.Context, filters CatalogFilters, page Page) (SystemPage, error)

	// ListViolations returns the violations for the given systems. An empty
	// id list means all systems matching the filters.
	ListViolations(ctx context.Context, pwsids []string, filters CatalogFilters) ([]Violation, error)
}
