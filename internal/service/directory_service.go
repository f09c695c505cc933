package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/spatial"
)

// DirectoryService serves the location directory and the live heatmap
type DirectoryService struct {
	store        risk.ReadingSource
	directory    LocationDirectory
	window       int
	storeTimeout time.Duration
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(store risk.ReadingSource, directory LocationDirectory, window int, storeTimeout time.Duration) *DirectoryService {
	if window < 1 {
		window = risk.DefaultWindow
	}
	return &DirectoryService{
		store:        store,
		directory:    directory,
		window:       window,
		storeTimeout: storeTimeout,
	}
}

// Zones lists every location with its gates and the mean gate position
func (s *DirectoryService) Zones(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	locations, err := s.directory.ListAll(ctx)
	if err != nil {
		return nil, apperr.FromCollaborator(apperr.LocationDirectory, err)
	}
	for i := range locations {
		if center, ok := spatial.Centroid(locations[i].Gates); ok {
			c := center
			locations[i].Center = &c
		}
	}
	if locations == nil {
		locations = []models.Location{}
	}
	return locations, nil
}

// Heatmap returns the latest reading of every (location, gate) pair,
// colored by its current tier and placed at the gate's coordinates when
// the directory knows them.
func (s *DirectoryService) Heatmap(ctx context.Context, locationID string) ([]models.HeatmapEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	readings, err := s.store.QueryRecent(ctx, models.ReadingFilter{LocationID: locationID, Window: s.window})
	if err != nil {
		return nil, apperr.FromCollaborator(apperr.ReadingStore, err)
	}

	locations, err := s.heatmapLocations(ctx, locationID)
	if err != nil {
		return nil, err
	}
	gates := make(map[models.GateKey]models.Gate)
	for _, loc := range locations {
		for _, g := range loc.Gates {
			gates[models.GateKey{LocationID: loc.LocationID, GateID: g.GateID}] = g
		}
	}

	newest := make(map[models.GateKey]time.Time)
	for _, r := range readings {
		key := models.GateKey{LocationID: r.LocationID, GateID: r.GateID}
		if r.Timestamp.After(newest[key]) {
			newest[key] = r.Timestamp
		}
	}

	samples := risk.Reduce(readings, s.window)
	entries := make([]models.HeatmapEntry, 0, len(samples))
	for _, sample := range samples {
		key := models.GateKey{LocationID: sample.LocationID, GateID: sample.GateID}
		entry := models.HeatmapEntry{
			LocationID: sample.LocationID,
			GateID:     sample.GateID,
			Density:    sample.Latest,
			Timestamp:  newest[key],
			Color:      risk.ClassifySample(sample).Color,
		}
		if g, ok := gates[key]; ok {
			entry.GateName = g.Name
			if !g.Coordinates.IsZero() {
				lat, lng := g.Coordinates.Lat, g.Coordinates.Lng
				entry.Lat, entry.Lng = &lat, &lng
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// heatmapLocations returns the directory entries used to decorate heatmap
// cells. An unlisted location yields none; its readings are still shown.
func (s *DirectoryService) heatmapLocations(ctx context.Context, locationID string) ([]models.Location, error) {
	if locationID == "" {
		locations, err := s.directory.ListAll(ctx)
		if err != nil {
			return nil, apperr.FromCollaborator(apperr.LocationDirectory, err)
		}
		return locations, nil
	}

	loc, err := s.directory.FindByID(ctx, locationID)
	switch {
	case err == nil:
		return []models.Location{*loc}, nil
	case apperr.Is(err, apperr.KindNotFound):
		return nil, nil
	default:
		return nil, apperr.FromCollaborator(apperr.LocationDirectory, err)
	}
}

// Import upserts locations into the directory
func (s *DirectoryService) Import(ctx context.Context, writer LocationWriter, locations []models.Location) error {
	for i := range locations {
		loc := &locations[i]
		if loc.LocationID == "" || loc.LocationName == "" {
			return apperr.InvalidInput("locationId", fmt.Sprintf("location #%d needs an id and a name", i+1))
		}
		seen := make(map[string]bool, len(loc.Gates))
		for _, g := range loc.Gates {
			if g.GateID == "" {
				return apperr.InvalidInput("gateId", fmt.Sprintf("location %s has a gate without an id", loc.LocationID))
			}
			if seen[g.GateID] {
				return apperr.InvalidInput("gateId", fmt.Sprintf("location %s lists gate %s twice", loc.LocationID, g.GateID))
			}
			seen[g.GateID] = true
		}
		if err := writer.Upsert(ctx, loc); err != nil {
			return apperr.FromCollaborator(apperr.LocationDirectory, err)
		}
	}
	return nil
}

func (s *DirectoryService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
