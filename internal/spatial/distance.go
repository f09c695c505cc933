// Package spatial measures distances and directions between gates.
package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// EarthRadiusMeters is the Earth's mean radius
const EarthRadiusMeters = 6371000.0

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DistanceMeters returns the great-circle distance between two coordinates
func DistanceMeters(from, to models.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(from.Lat, from.Lng)
	p2 := s2.LatLngFromDegrees(to.Lat, to.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing returns the initial bearing from one coordinate to another, in
// degrees clockwise from north (0-360)
func Bearing(from, to models.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(from.Lat, from.Lng)
	p2 := s2.LatLngFromDegrees(to.Lat, to.Lng)

	lat1 := p1.Lat.Radians()
	lat2 := p2.Lat.Radians()
	lonDiff := p2.Lng.Radians() - p1.Lng.Radians()

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Compass maps a bearing to one of eight compass points
func Compass(bearing float64) string {
	bearing = math.Mod(math.Mod(bearing, 360)+360, 360)
	return compassPoints[int(math.Round(bearing/45))%len(compassPoints)]
}

// Route describes how to get from one gate to another
type Route struct {
	DistanceMeters float64
	Direction      string
}

// RouteBetween returns the route between two gates. ok is false when either
// gate has no coordinates.
func RouteBetween(from, to models.Gate) (Route, bool) {
	if from.Coordinates.IsZero() || to.Coordinates.IsZero() {
		return Route{}, false
	}
	return Route{
		DistanceMeters: math.Round(DistanceMeters(from.Coordinates, to.Coordinates)),
		Direction:      Compass(Bearing(from.Coordinates, to.Coordinates)),
	}, true
}

// Centroid returns the mean position of the gates that have coordinates
func Centroid(gates []models.Gate) (models.Coordinates, bool) {
	var sumLat, sumLng float64
	n := 0
	for _, g := range gates {
		if g.Coordinates.IsZero() {
			continue
		}
		sumLat += g.Coordinates.Lat
		sumLng += g.Coordinates.Lng
		n++
	}
	if n == 0 {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Lat: sumLat / float64(n), Lng: sumLng / float64(n)}, true
}
