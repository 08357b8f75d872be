package proximity

import (
	"math"

	"indastreet/models"
)

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two GeoJSON points.
// Invalid points yield NaN, which GetTier treats as "no tier".
func DistanceMeters(a, b models.GeoPoint) float64 {
	if !a.Valid() || !b.Valid() {
		return math.NaN()
	}
	lon1, lat1 := a.Coordinates[0], a.Coordinates[1]
	lon2, lat2 := b.Coordinates[0], b.Coordinates[1]

	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}
