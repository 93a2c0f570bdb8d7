package domain

import (
	"hash/fnv"
	"strings"
)

// CoordinateSource records where a resolved coordinate came from.
type CoordinateSource string

const (
	SourceCache    CoordinateSource = "cache"
	SourceExternal CoordinateSource = "external"
	SourceFallback CoordinateSource = "fallback"
)

// FallbackConfidence is the fixed confidence band for synthesized coordinates.
const FallbackConfidence = 0.1

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CoordinateRecord is a resolved coordinate plus provenance metadata.
type CoordinateRecord struct {
	Coordinate
	Source     CoordinateSource `json:"source"`
	Confidence float64          `json:"confidence"` // 0.0–1.0
}

// SystemLocation carries the locality fields a coordinate resolution needs.
type SystemLocation struct {
	SystemID string
	Name     string
	City     string
	County   string
}

// Key returns the normalized cache key for this location.
func (l SystemLocation) Key() LocationKey {
	return NewLocationKey(l.County, l.City, l.Name)
}

// LocationKey is a normalized composite identifier for a location descriptor,
// used as the coordinate cache key.
type LocationKey string

// NewLocationKey builds a key from county, city, and system name. Fields are
// upper-cased with whitespace runs collapsed to underscores, so descriptors
// differing only in case or spacing map to the same key.
func NewLocationKey(county, city, name string) LocationKey {
	return LocationKey(normalizeField(county) + "_" + normalizeField(city) + "_" + normalizeField(name))
}

func normalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), "_")
}

// BoundingBox is a latitude/longitude rectangle used to sanity-check
// geocoding results against the expected operating region.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the coordinate falls inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.South && c.Lat <= b.North &&
		c.Lon >= b.West && c.Lon <= b.East
}

// GeorgiaBounds approximates the state of Georgia. Results outside this box
// are rejected as ambiguous matches elsewhere in the world.
var GeorgiaBounds = BoundingBox{North: 35.0, South: 30.3, East: -80.8, West: -85.6}

// GeorgiaCentroid anchors fallback coordinates.
var GeorgiaCentroid = Coordinate{Lat: 32.1656, Lon: -82.9001}

// FallbackCoordinate synthesizes a deterministic coordinate for a system that
// could not be geocoded: the regional centroid plus a reproducible offset in
// a ±0.1 degree band derived from an FNV-1a hash of the system id. The same
// id always yields the same coordinate.
func FallbackCoordinate(systemID string, centroid Coordinate) CoordinateRecord {
	h := fnv.New64a()
	h.Write([]byte(systemID)) //nolint:errcheck // fnv writes never fail
	sum := h.Sum64()

	latOffset := float64(int64(sum%2001)-1000) / 10000
	lonOffset := float64(int64((sum/2001)%2001)-1000) / 10000

	return CoordinateRecord{
		Coordinate: Coordinate{
			Lat: centroid.Lat + latOffset,
			Lon: centroid.Lon + lonOffset,
		},
		Source:     SourceFallback,
		Confidence: FallbackConfidence,
	}
}
