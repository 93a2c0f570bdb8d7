package selection

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"watermap/internal/domain"
)

// ErrInvalidGeometry rejects degenerate or self-intersecting polygons at
// commit time.
var ErrInvalidGeometry = errors.New("selection: invalid polygon geometry")

// Polygon is a user-drawn region. Containment and area are the only
// capabilities the core needs, so the mapping toolkit that produced the
// vertices never leaks in here.
type Polygon struct {
	ring orb.Ring
}

// NewPolygon validates a vertex list and builds a Polygon. The ring needs at
// least three distinct vertices, non-zero area, and no self-intersections;
// anything else returns ErrInvalidGeometry. A closing vertex equal to the
// first is accepted and normalized away.
func NewPolygon(coords []domain.Coordinate) (Polygon, error) {
	if len(coords) > 1 && coords[0] == coords[len(coords)-1] {
		coords = coords[:len(coords)-1]
	}
	if len(distinct(coords)) < 3 {
		return Polygon{}, ErrInvalidGeometry
	}
	if selfIntersects(coords) {
		return Polygon{}, ErrInvalidGeometry
	}

	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, orb.Point{c.Lon, c.Lat})
	}
	ring = append(ring, ring[0])

	p := Polygon{ring: ring}
	if p.AreaKm2() <= 0 {
		return Polygon{}, ErrInvalidGeometry
	}
	return p, nil
}

// Contains tests the coordinate with an even-odd ray cast. Boundary points
// count as outside; the rule is strict and consistent across calls.
func (p Polygon) Contains(c domain.Coordinate) bool {
	// Skip the duplicated closing vertex.
	ring := p.ring[:len(p.ring)-1]
	n := len(ring)
	inside := false
	x, y := c.Lon, c.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if onSegment(x, y, xi, yi, xj, yj) {
			return false
		}
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// onSegment reports whether (x, y) lies on the segment from (x1, y1) to
// (x2, y2).
func onSegment(x, y, x1, y1, x2, y2 float64) bool {
	if (x2-x1)*(y-y1)-(y2-y1)*(x-x1) != 0 {
		return false
	}
	return min(x1, x2) <= x && x <= max(x1, x2) &&
		min(y1, y2) <= y && y <= max(y1, y2)
}

// AreaKm2 computes the spherical (WGS-84) area of the ring in square
// kilometers.
func (p Polygon) AreaKm2() float64 {
	area := geo.Area(p.ring)
	if area < 0 {
		area = -area
	}
	return area / 1e6
}

// Ring exposes the closed ring for GeoJSON export.
func (p Polygon) Ring() orb.Ring {
	return p.ring
}

// Coordinates returns the vertex list without the closing duplicate.
func (p Polygon) Coordinates() []domain.Coordinate {
	out := make([]domain.Coordinate, 0, len(p.ring)-1)
	for _, pt := range p.ring[:len(p.ring)-1] {
		out = append(out, domain.Coordinate{Lat: pt[1], Lon: pt[0]})
	}
	return out
}

func distinct(coords []domain.Coordinate) []domain.Coordinate {
	seen := make(map[domain.Coordinate]bool, len(coords))
	out := coords[:0:0]
	for _, c := range coords {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// selfIntersects reports whether any two non-adjacent edges cross.
func selfIntersects(coords []domain.Coordinate) bool {
	n := len(coords)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := coords[i]
		a2 := coords[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Adjacent edges share a vertex; crossing there is expected.
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := coords[j]
			b2 := coords[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 domain.Coordinate) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b domain.Coordinate) float64 {
	return (a.Lon-o.Lon)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lon-o.Lon)
}
