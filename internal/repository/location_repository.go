package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/database"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// LocationRepository is the Location Directory
type LocationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *database.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListAll returns every location with its gates, in insertion order
func (r *LocationRepository) ListAll(ctx context.Context) ([]models.Location, error) {
	return r.list(ctx, "", nil)
}

// FindByName looks a location up by name, ignoring case and surrounding space
func (r *LocationRepository) FindByName(ctx context.Context, name string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	locations, err := r.list(ctx, "WHERE l.location_name = ?", []interface{}{name})
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, apperr.NotFound("location", name)
	}
	return &locations[0], nil
}

// FindByID looks a location up by its identifier
func (r *LocationRepository) FindByID(ctx context.Context, locationID string) (*models.Location, error) {
	locations, err := r.list(ctx, "WHERE l.location_id = ?", []interface{}{locationID})
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, apperr.NotFound("location", locationID)
	}
	return &locations[0], nil
}

// Upsert creates or replaces a location and its gate list
func (r *LocationRepository) Upsert(ctx context.Context, loc *models.Location) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO locations (location_id, location_name, location_type)
			VALUES (?, ?, ?)
			ON CONFLICT(location_id) DO UPDATE SET
				location_name = excluded.location_name,
				location_type = excluded.location_type
		`, loc.LocationID, loc.LocationName, string(loc.LocationType))
		if err != nil {
			return fmt.Errorf("failed to upsert location %s: %w", loc.LocationID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM gates WHERE location_id = ?", loc.LocationID); err != nil {
			return fmt.Errorf("failed to clear gates of %s: %w", loc.LocationID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO gates (location_id, gate_id, name, lat, lng, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare gate insert: %w", err)
		}
		defer stmt.Close()

		for i, gate := range loc.Gates {
			lat, lng := nullCoordinates(gate.Coordinates)
			if _, err := stmt.ExecContext(ctx, loc.LocationID, gate.GateID, gate.Name, lat, lng, i); err != nil {
				return fmt.Errorf("failed to insert gate %s/%s: %w", loc.LocationID, gate.GateID, err)
			}
		}
		return nil
	})
}

// Delete removes a location and its gates. Readings are kept.
func (r *LocationRepository) Delete(ctx context.Context, locationID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM locations WHERE location_id = ?", locationID)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("location", locationID)
	}
	return nil
}

func (r *LocationRepository) list(ctx context.Context, where string, args []interface{}) ([]models.Location, error) {
	query := `
		SELECT l.location_id, l.location_name, l.location_type,
			   g.gate_id, g.name, g.lat, g.lng
		FROM locations l
		LEFT JOIN gates g ON g.location_id = l.location_id
		` + where + `
		ORDER BY l.rowid, g.position
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	index := make(map[string]int)
	for rows.Next() {
		var (
			locationID, locationName, locationType string
			gateID, gateName                       sql.NullString
			lat, lng                               sql.NullFloat64
		)
		if err := rows.Scan(&locationID, &locationName, &locationType, &gateID, &gateName, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}

		i, ok := index[locationID]
		if !ok {
			locations = append(locations, models.Location{
				LocationID:   locationID,
				LocationName: locationName,
				LocationType: models.LocationType(locationType),
				Gates:        []models.Gate{},
			})
			i = len(locations) - 1
			index[locationID] = i
		}

		if gateID.Valid {
			locations[i].Gates = append(locations[i].Gates, models.Gate{
				GateID:      gateID.String,
				Name:        gateName.String,
				Coordinates: models.Coordinates{Lat: lat.Float64, Lng: lng.Float64},
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}

	return locations, nil
}

func nullCoordinates(c models.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c.IsZero() {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}
