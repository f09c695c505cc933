package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// IngestService validates and stores density readings
type IngestService struct {
	store        ReadingStore
	extractor    *risk.Extractor
	notifier     AlertNotifier
	storeTimeout time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewIngestService creates a new ingest service. notifier may be nil.
func NewIngestService(store ReadingStore, notifier AlertNotifier, window int, storeTimeout time.Duration) *IngestService {
	return &IngestService{
		store:        store,
		extractor:    risk.NewExtractor(store, window),
		notifier:     notifier,
		storeTimeout: storeTimeout,
		logger:       logging.NewServiceLogger("ingest"),
		now:          time.Now,
	}
}

// Ingest validates and stores one reading, then reclassifies its gate and
// raises an alert when the gate is in a severe tier. Alerting problems are
// logged and never fail the ingestion.
func (s *IngestService) Ingest(ctx context.Context, req models.IngestRequest) (*models.IngestResponse, error) {
	reading, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	storeCtx := ctx
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	if err := s.store.Insert(storeCtx, reading); err != nil {
		return nil, apperr.FromCollaborator(apperr.ReadingStore, err)
	}

	resp := &models.IngestResponse{Message: "Crowd data recorded", Reading: *reading}

	samples, err := s.extractor.Extract(storeCtx, reading.LocationID, []string{reading.GateID})
	if err != nil {
		s.logger.Warn().Err(err).Str("location_id", reading.LocationID).Str("gate_id", reading.GateID).
			Msg("Failed to reclassify gate after ingest")
		return resp, nil
	}

	sample, ok := risk.FindSample(samples, reading.LocationID, reading.GateID)
	if !ok {
		return resp, nil
	}
	status := risk.ClassifySample(sample)
	resp.Status = &status

	if s.notifier != nil {
		alert, err := s.notifier.Notify(sample)
		if err != nil {
			s.logger.Warn().Err(err).Str("location_id", reading.LocationID).Str("gate_id", reading.GateID).
				Msg("Failed to publish alert")
		}
		resp.Alerted = alert != nil
	}
	return resp, nil
}

func (s *IngestService) validate(req models.IngestRequest) (*models.Reading, error) {
	locationID := strings.TrimSpace(req.LocationID)
	gateID := strings.TrimSpace(req.GateID)

	switch {
	case locationID == "":
		return nil, apperr.InvalidInput("locationId", "locationId, gateId and density are required")
	case gateID == "":
		return nil, apperr.InvalidInput("gateId", "locationId, gateId and density are required")
	case req.Density == nil:
		return nil, apperr.InvalidInput("density", "locationId, gateId and density are required")
	case math.IsNaN(*req.Density) || math.IsInf(*req.Density, 0):
		return nil, apperr.InvalidInput("density", "density must be a finite number")
	}

	ts := s.now().UTC()
	if raw := strings.TrimSpace(req.Timestamp); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperr.InvalidInput("timestamp", "timestamp must be RFC3339")
		}
		ts = parsed.UTC()
	}

	return &models.Reading{
		LocationID: locationID,
		GateID:     gateID,
		Density:    *req.Density,
		Timestamp:  ts,
	}, nil
}
