package selection

import "fmt"

// FormatArea renders an area with unit-appropriate precision: below 1 km²
// it switches to whole square meters, above 100 km² to whole square
// kilometers, and otherwise shows two decimals.
func FormatArea(areaKm2 float64) string {
	switch {
	case areaKm2 < 1:
		return fmt.Sprintf("%.0f m²", areaKm2*1e6)
	case areaKm2 > 100:
		return fmt.Sprintf("%.0f km²", areaKm2)
	default:
		return fmt.Sprintf("%.2f km²", areaKm2)
	}
}
