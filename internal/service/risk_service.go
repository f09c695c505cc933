package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/narrative"
	"github.com/jengzang/crowdscan-backend-go/internal/spatial"
)

// RiskService answers risk summaries, statistics, gate advisories,
// forecasts and free-form questions
type RiskService struct {
	extractor    *risk.Extractor
	directory    LocationDirectory
	narrator     narrative.Requester
	storeTimeout time.Duration
	logger       zerolog.Logger
}

// NewRiskService creates a new risk service. A nil narrator disables narratives.
func NewRiskService(store risk.ReadingSource, directory LocationDirectory, narrator narrative.Requester, window int, storeTimeout time.Duration) *RiskService {
	if narrator == nil {
		narrator = narrative.Disabled{}
	}
	return &RiskService{
		extractor:    risk.NewExtractor(store, window),
		directory:    directory,
		narrator:     narrator,
		storeTimeout: storeTimeout,
		logger:       logging.NewServiceLogger("risk"),
	}
}

// Samples returns the trend sample of every gate with readings
func (s *RiskService) Samples(ctx context.Context) ([]models.TrendSample, error) {
	return s.extract(ctx, "", nil)
}

// FleetSummary classifies every monitored gate, grouped by location
func (s *RiskService) FleetSummary(ctx context.Context, mode models.NarrativeMode) (*models.RiskSummaryResponse, error) {
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}

	locations, err := s.listLocations(ctx)
	if err != nil {
		return nil, err
	}

	grouped := groupByLocation(samples, locations)
	resp := &models.RiskSummaryResponse{
		Mode:      mode,
		Locations: grouped,
		Context:   narrative.FleetContext(grouped),
	}
	if len(samples) == 0 {
		return resp, nil
	}

	resp.Summary, resp.NarrativeError = s.narrate(ctx, resp.Context, narrative.FleetPrompt(resp.Context, mode))
	return resp, nil
}

// LocationSummary classifies the gates of one location, looked up by name
func (s *RiskService) LocationSummary(ctx context.Context, name string, mode models.NarrativeMode) (*models.RiskSummaryResponse, error) {
	loc, err := s.findLocation(ctx, name)
	if err != nil {
		return nil, err
	}

	samples, err := s.locationSamples(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, apperr.NotFound("location readings", loc.LocationID)
	}

	gates := gateRisks(samples)
	resp := &models.RiskSummaryResponse{
		Mode: mode,
		Locations: []models.LocationRisk{{
			LocationID:   loc.LocationID,
			LocationName: loc.LocationName,
			Gates:        gates,
		}},
		Context: narrative.LocationContext(loc.LocationName, gates),
	}

	resp.Summary, resp.NarrativeError = s.narrate(ctx, resp.Context, narrative.LocationPrompt(loc.LocationName, resp.Context, mode))
	return resp, nil
}

// GateAdvisory reports the tier of a gate and, unless it is Safe, the
// least crowded other gate of the same location
func (s *RiskService) GateAdvisory(ctx context.Context, locationName, gateID string) (*models.GateAdvisoryResponse, error) {
	loc, gate, err := s.findGate(ctx, locationName, gateID)
	if err != nil {
		return nil, err
	}

	samples, err := s.locationSamples(ctx, loc)
	if err != nil {
		return nil, err
	}

	target, ok := risk.FindSample(samples, loc.LocationID, gate.GateID)
	if !ok {
		return nil, apperr.NotFound("gate readings", gate.GateID)
	}

	status := risk.ClassifySample(target)
	resp := &models.GateAdvisoryResponse{
		LocationID: loc.LocationID,
		GateID:     gate.GateID,
		Status:     status.Tag,
		RiskLevel:  status.RiskLevel,
		Color:      status.Color,
	}

	if alt, ok := risk.AlternateGate(samples, gate.GateID, status); ok {
		safest := alt.GateID
		resp.SafestGate = &safest
		if altGate, found := loc.FindGate(alt.GateID); found {
			if route, ok := spatial.RouteBetween(gate, altGate); ok {
				resp.SafestGateDistanceMeters = &route.DistanceMeters
				resp.SafestGateDirection = route.Direction
			}
		}
	}

	lines := narrative.GateLines(gateRisks(samples))
	resp.Summary, resp.NarrativeError = s.narrate(ctx, lines, narrative.GatePrompt(loc.LocationName, lines, gate.GateID))
	return resp, nil
}

// Predict extrapolates one gate's density one interval ahead. The gate only
// needs readings; it does not have to be listed in the directory.
func (s *RiskService) Predict(ctx context.Context, locationName, gateID string) (*models.ForecastResponse, error) {
	gateID = strings.TrimSpace(gateID)
	if gateID == "" {
		return nil, apperr.InvalidInput("gate", "location and gate are required")
	}

	loc, err := s.findLocation(ctx, locationName)
	if err != nil {
		return nil, err
	}

	samples, err := s.extract(ctx, loc.LocationID, []string{gateID})
	if err != nil {
		return nil, err
	}

	sample, ok := risk.FindSample(samples, loc.LocationID, gateID)
	if !ok {
		return nil, apperr.NotFound("gate readings", gateID)
	}

	value, result := risk.ForecastSample(sample)
	resp := &models.ForecastResponse{
		LocationID:      loc.LocationID,
		GateID:          gateID,
		Latest:          sample.Latest,
		Previous:        sample.Previous,
		Trend:           sample.Trend,
		Forecast:        value,
		Status:          result.Tag,
		RiskLevel:       result.RiskLevel,
		Color:           result.Color,
		ForecastSummary: narrative.DescribeForecast(loc.LocationName, sample, value, result.Tag),
	}

	resp.Summary, resp.NarrativeError = s.narrate(ctx, "", narrative.ForecastPrompt(loc.LocationName, sample, value, result.Tag))
	return resp, nil
}

// Query forwards a free-form question with the fleet's latest densities.
// Without a structured payload to fall back on, narrative failure is an error.
func (s *RiskService) Query(ctx context.Context, query string) (*models.QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.InvalidInput("query", "query is required")
	}

	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}

	digest := narrative.QueryContext(samples)
	summary, err := s.narrator.Generate(ctx, digest, narrative.QueryPrompt(digest, query))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Narrative request failed")
		return nil, apperr.CollaboratorFailure(apperr.NarrativeService, err)
	}
	return &models.QueryResponse{Summary: summary}, nil
}

// Stats returns per-tier counts and percentages over every monitored gate
func (s *RiskService) Stats(ctx context.Context) (*models.RiskStatsResponse, error) {
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}
	return risk.Stats(samples)
}

func (s *RiskService) extract(ctx context.Context, locationID string, gateIDs []string) ([]models.TrendSample, error) {
	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	samples, err := s.extractor.Extract(ctx, locationID, gateIDs)
	if err != nil {
		return nil, apperr.FromCollaborator(apperr.ReadingStore, err)
	}
	return samples, nil
}

func (s *RiskService) locationSamples(ctx context.Context, loc *models.Location) ([]models.TrendSample, error) {
	gateIDs := loc.GateIDs()
	if len(gateIDs) == 0 {
		return nil, nil
	}
	samples, err := s.extract(ctx, loc.LocationID, gateIDs)
	if err != nil {
		return nil, err
	}
	return risk.OrderByGates(samples, gateIDs), nil
}

func (s *RiskService) findLocation(ctx context.Context, name string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("location", "location is required")
	}

	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	loc, err := s.directory.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.FromCollaborator(apperr.LocationDirectory, err)
	}
	return loc, nil
}

func (s *RiskService) findGate(ctx context.Context, locationName, gateID string) (*models.Location, models.Gate, error) {
	gateID = strings.TrimSpace(gateID)
	if strings.TrimSpace(locationName) == "" || gateID == "" {
		field := "location"
		if gateID == "" {
			field = "gate"
		}
		return nil, models.Gate{}, apperr.InvalidInput(field, "location and gate are required")
	}

	loc, err := s.findLocation(ctx, locationName)
	if err != nil {
		return nil, models.Gate{}, err
	}

	gate, ok := loc.FindGate(gateID)
	if !ok {
		return nil, models.Gate{}, apperr.NotFound("gate", gateID)
	}
	return loc, gate, nil
}

func (s *RiskService) listLocations(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := s.withStoreTimeout(ctx)
	defer cancel()

	locations, err := s.directory.ListAll(ctx)
	if err != nil {
		return nil, apperr.FromCollaborator(apperr.LocationDirectory, err)
	}
	return locations, nil
}

// narrate returns the generated summary, or an error message when the
// narrative service fails. It never fails the caller.
func (s *RiskService) narrate(ctx context.Context, structuredContext, prompt string) (string, string) {
	summary, err := s.narrator.Generate(ctx, structuredContext, prompt)
	if err != nil {
		if !errors.Is(err, narrative.ErrDisabled) {
			s.logger.Warn().Err(err).Msg("Narrative request failed")
		}
		return "", err.Error()
	}
	return summary, ""
}

func (s *RiskService) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func gateRisks(samples []models.TrendSample) []models.GateRisk {
	gates := make([]models.GateRisk, 0, len(samples))
	for _, sample := range samples {
		gates = append(gates, risk.GateRiskOf(sample))
	}
	return gates
}

// groupByLocation groups samples under their location. Directory locations
// and gates come first in directory order, followed by anything the
// directory does not know in the order it was read.
func groupByLocation(samples []models.TrendSample, locations []models.Location) []models.LocationRisk {
	byLocation := make(map[string][]models.TrendSample)
	var seen []string
	for _, sample := range samples {
		if _, ok := byLocation[sample.LocationID]; !ok {
			seen = append(seen, sample.LocationID)
		}
		byLocation[sample.LocationID] = append(byLocation[sample.LocationID], sample)
	}

	grouped := make([]models.LocationRisk, 0, len(seen))
	known := make(map[string]bool, len(locations))
	for _, loc := range locations {
		known[loc.LocationID] = true
		group, ok := byLocation[loc.LocationID]
		if !ok {
			continue
		}

		ordered := risk.OrderByGates(group, loc.GateIDs())
		if len(ordered) < len(group) {
			inDirectory := make(map[string]bool, len(loc.Gates))
			for _, g := range loc.Gates {
				inDirectory[g.GateID] = true
			}
			for _, sample := range group {
				if !inDirectory[sample.GateID] {
					ordered = append(ordered, sample)
				}
			}
		}

		grouped = append(grouped, models.LocationRisk{
			LocationID:   loc.LocationID,
			LocationName: loc.LocationName,
			Gates:        gateRisks(ordered),
		})
	}

	for _, id := range seen {
		if known[id] {
			continue
		}
		grouped = append(grouped, models.LocationRisk{
			LocationID: id,
			Gates:      gateRisks(byLocation[id]),
		})
	}
	return grouped
}
