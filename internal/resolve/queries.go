package resolve

import (
	"fmt"
	"strings"

	"watermap/internal/domain"
)

// buildQueries constructs candidate geocoding queries from most to least
// specific: full triple, city+county, name+county, city alone, county alone.
// Each carries the jurisdiction qualifier so ambiguous place names resolve
// inside the operating region.
func buildQueries(loc domain.SystemLocation, qualifier string) []string {
	name := strings.TrimSpace(loc.Name)
	city := strings.TrimSpace(loc.City)
	county := strings.TrimSpace(loc.County)

	var queries []string
	add := func(parts ...string) {
		joined := strings.Join(parts, ", ")
		queries = append(queries, joined+", "+qualifier)
	}

	if name != "" && city != "" && county != "" {
		add(name, city, countyQuery(county))
	}
	if city != "" && county != "" {
		add(city, countyQuery(county))
	}
	if name != "" && county != "" {
		add(name, countyQuery(county))
	}
	if city != "" {
		add(city)
	}
	if county != "" {
		add(countyQuery(county))
	}
	return queries
}

func countyQuery(county string) string {
	return fmt.Sprintf("%s County", county)
}
