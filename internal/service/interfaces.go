package service

import (
	"context"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// ReadingStore is the append-only store of density readings
type ReadingStore interface {
	risk.ReadingSource
	Insert(ctx context.Context, reading *models.Reading) error
}

// LocationDirectory is the registry of locations and their gates
type LocationDirectory interface {
	FindByName(ctx context.Context, name string) (*models.Location, error)
	FindByID(ctx context.Context, locationID string) (*models.Location, error)
	ListAll(ctx context.Context) ([]models.Location, error)
}

// LocationWriter stores directory entries
type LocationWriter interface {
	Upsert(ctx context.Context, loc *models.Location) error
}

// AlertNotifier is told about every freshly recomputed gate sample
type AlertNotifier interface {
	Notify(sample models.TrendSample) (*models.Alert, error)
}
