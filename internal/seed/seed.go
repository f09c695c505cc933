// Package seed provides the built-in location directory and loads
// directory files.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// File is the on-disk layout of a directory file
type File struct {
	Locations []models.Location `yaml:"locations"`
}

// Load reads locations from a YAML file
func Load(path string) ([]models.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML directory data
func Parse(data []byte) ([]models.Location, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(file.Locations) == 0 {
		return nil, fmt.Errorf("seed file lists no locations")
	}
	return file.Locations, nil
}

// Marshal encodes locations in the directory file layout
func Marshal(locations []models.Location) ([]byte, error) {
	return yaml.Marshal(File{Locations: locations})
}

func gate(id, name string, lat, lng float64) models.Gate {
	return models.Gate{GateID: id, Name: name, Coordinates: models.Coordinates{Lat: lat, Lng: lng}}
}

// Defaults returns the three demo venues
func Defaults() []models.Location {
	return []models.Location{
		{
			LocationID:   "stadium1",
			LocationName: "M. Chinnaswamy Stadium",
			LocationType: models.LocationTypeStadium,
			Gates: []models.Gate{
				gate("G1", "North Gate", 12.9784, 77.5996),
				gate("G2", "South Gate", 12.9762, 77.5990),
				gate("G3", "East Gate", 12.9775, 77.6010),
				gate("G4", "West Gate", 12.9770, 77.5975),
			},
		},
		{
			LocationID:   "metro1",
			LocationName: "MG Road Metro Station",
			LocationType: models.LocationTypeMetro,
			Gates: []models.Gate{
				gate("G1", "Entry Gate 1", 12.9758, 77.6101),
				gate("G2", "Entry Gate 2", 12.9760, 77.6095),
				gate("G3", "Exit Gate 1", 12.9762, 77.6103),
				gate("G4", "Exit Gate 2", 12.9756, 77.6098),
			},
		},
		{
			LocationID:   "mall1",
			LocationName: "Orion Mall",
			LocationType: models.LocationTypeMall,
			Gates: []models.Gate{
				gate("G1", "Main Entrance", 13.0116, 77.5556),
				gate("G2", "Parking Entrance", 13.0120, 77.5560),
				gate("G3", "Food Court Entrance", 13.0118, 77.5558),
				gate("G4", "Emergency Exit", 13.0114, 77.5552),
			},
		},
	}
}
