package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/crowdscan-backend-go/internal/database"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// ReadingRepository is the append-only Reading Store
type ReadingRepository struct {
	db *database.DB
}

// NewReadingRepository creates a new reading repository
func NewReadingRepository(db *database.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Insert stores a reading and sets its ID
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO readings (location_id, gate_id, density, recorded_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		reading.LocationID,
		reading.GateID,
		reading.Density,
		reading.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	reading.ID = id
	return nil
}

// QueryRecent returns up to filter.Window readings per (location, gate),
// newest first, grouped by location then gate.
func (r *ReadingRepository) QueryRecent(ctx context.Context, filter models.ReadingFilter) ([]models.Reading, error) {
	window := filter.Window
	if window < 1 {
		window = 1
	}

	conditions := []string{}
	args := []interface{}{}

	if filter.LocationID != "" {
		conditions = append(conditions, "location_id = ?")
		args = append(args, filter.LocationID)
	}
	if len(filter.GateIDs) > 0 {
		placeholders := make([]string, len(filter.GateIDs))
		for i, id := range filter.GateIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conditions = append(conditions, "gate_id IN ("+strings.Join(placeholders, ", ")+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT id, location_id, gate_id, density, recorded_at
		FROM (
			SELECT id, location_id, gate_id, density, recorded_at,
				ROW_NUMBER() OVER (
					PARTITION BY location_id, gate_id
					ORDER BY recorded_at DESC, id DESC
				) AS rn
			FROM readings
			` + where + `
		)
		WHERE rn <= ?
		ORDER BY location_id, gate_id, recorded_at DESC, id DESC
	`
	args = append(args, window)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent readings: %w", err)
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		var recordedAt int64
		if err := rows.Scan(
			&reading.ID,
			&reading.LocationID,
			&reading.GateID,
			&reading.Density,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		reading.Timestamp = time.UnixMilli(recordedAt).UTC()
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// LatestPerGate returns the newest reading of every gate, optionally for one location
func (r *ReadingRepository) LatestPerGate(ctx context.Context, locationID string) ([]models.Reading, error) {
	return r.QueryRecent(ctx, models.ReadingFilter{LocationID: locationID, Window: 1})
}

// Count returns the number of stored readings
func (r *ReadingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}
