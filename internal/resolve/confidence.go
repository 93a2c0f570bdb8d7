package resolve

import "watermap/internal/domain"

// ScoreConfig holds the confidence increments applied per geocoder result
// type. The values are empirically tuned against Georgia location data, not
// derived from a formula, so they stay configurable.
type ScoreConfig struct {
	Base            float64
	Locality        float64
	AdminArea       float64
	Establishment   float64
	PointOfInterest float64
	FullMatch       float64
}

// DefaultScoreConfig returns the tuned production increments.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Base:            0.5,
		Locality:        0.3,
		AdminArea:       0.2,
		Establishment:   0.2,
		PointOfInterest: 0.1,
		FullMatch:       0.1,
	}
}

// score computes a confidence in [0,1] from the geocoder's result metadata.
func (s ScoreConfig) score(result domain.GeocodeResult) float64 {
	confidence := s.Base
	for _, t := range result.ResultTypes {
		switch t {
		case "locality":
			confidence += s.Locality
		case "administrative_area_level_2":
			confidence += s.AdminArea
		case "establishment":
			confidence += s.Establishment
		case "point_of_interest":
			confidence += s.PointOfInterest
		}
	}
	if !result.PartialMatch {
		confidence += s.FullMatch
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
