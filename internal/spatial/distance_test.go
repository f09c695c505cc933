package spatial

import (
	"math"
	"testing"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

func TestDistanceMeters(t *testing.T) {
	// North and South gates of the stadium seed, roughly 245 m apart
	north := models.Coordinates{Lat: 12.9784, Lng: 77.5996}
	south := models.Coordinates{Lat: 12.9762, Lng: 77.5990}

	d := DistanceMeters(north, south)
	if d < 230 || d > 260 {
		t.Errorf("Expected about 245m, got %.1f", d)
	}
	if DistanceMeters(north, north) != 0 {
		t.Error("Expected zero distance to self")
	}
	if math.Abs(DistanceMeters(north, south)-DistanceMeters(south, north)) > 1e-6 {
		t.Error("Expected distance to be symmetric")
	}
}

func TestCompass(t *testing.T) {
	testCases := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{337.4, "NW"},
		{359, "N"},
		{-90, "W"},
	}

	for _, tc := range testCases {
		if got := Compass(tc.bearing); got != tc.want {
			t.Errorf("Compass(%v): expected %s, got %s", tc.bearing, tc.want, got)
		}
	}
}

func TestBearing(t *testing.T) {
	origin := models.Coordinates{Lat: 10, Lng: 10}
	if b := Bearing(origin, models.Coordinates{Lat: 11, Lng: 10}); math.Abs(b) > 1e-6 {
		t.Errorf("Expected due north, got %v", b)
	}
	if b := Bearing(origin, models.Coordinates{Lat: 10, Lng: 11}); math.Abs(b-90) > 0.5 {
		t.Errorf("Expected roughly east, got %v", b)
	}
}

func TestRouteBetween(t *testing.T) {
	north := models.Gate{GateID: "G1", Coordinates: models.Coordinates{Lat: 12.9784, Lng: 77.5996}}
	south := models.Gate{GateID: "G2", Coordinates: models.Coordinates{Lat: 12.9762, Lng: 77.5990}}

	route, ok := RouteBetween(north, south)
	if !ok {
		t.Fatal("Expected a route")
	}
	if route.Direction != "S" {
		t.Errorf("Expected S, got %s", route.Direction)
	}
	if route.DistanceMeters != math.Round(route.DistanceMeters) {
		t.Errorf("Expected whole meters, got %v", route.DistanceMeters)
	}

	if _, ok := RouteBetween(north, models.Gate{GateID: "G9"}); ok {
		t.Error("Expected no route to a gate without coordinates")
	}
}

func TestCentroid(t *testing.T) {
	gates := []models.Gate{
		{Coordinates: models.Coordinates{Lat: 10, Lng: 20}},
		{Coordinates: models.Coordinates{Lat: 12, Lng: 22}},
		{},
	}
	c, ok := Centroid(gates)
	if !ok || c.Lat != 11 || c.Lng != 21 {
		t.Errorf("Expected (11, 21), got %+v (ok=%v)", c, ok)
	}
	if _, ok := Centroid([]models.Gate{{}}); ok {
		t.Error("Expected no centroid without coordinates")
	}
}
