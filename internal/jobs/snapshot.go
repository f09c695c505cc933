// Package jobs runs periodic background work on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/stats"
)

// SampleSource returns the current trend sample of every gate with readings
type SampleSource interface {
	Samples(ctx context.Context) ([]models.TrendSample, error)
}

// Publisher sends a snapshot to subscribers
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Snapshot is the periodic fleet risk message
type Snapshot struct {
	models.RiskStatsResponse
	Densities stats.DensitySummary `json:"densities"`
	TakenAt   int64                `json:"takenAt"` // unix milliseconds
}

// Scheduler publishes fleet risk statistics on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	source    SampleSource
	publisher Publisher
	subject   string
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler. Call Start to begin running jobs.
func NewScheduler(source SampleSource, publisher Publisher, subject string, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		source:    source,
		publisher: publisher,
		subject:   subject,
		timeout:   timeout,
		logger:    logging.NewServiceLogger("jobs"),
		now:       time.Now,
	}
}

// ScheduleSnapshot registers the snapshot job, e.g. "@every 1m" or "*/5 * * * *"
func (s *Scheduler) ScheduleSnapshot(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.RunSnapshot(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Risk snapshot failed")
		}
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("schedule", spec).Str("subject", s.subject).Msg("Risk snapshot scheduled")
	return nil
}

// RunSnapshot computes and publishes one snapshot. It returns false without
// an error when there are no readings yet.
func (s *Scheduler) RunSnapshot(ctx context.Context) (bool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	samples, err := s.source.Samples(ctx)
	if err != nil {
		return false, err
	}

	fleet, err := risk.Stats(samples)
	if apperr.Is(err, apperr.KindInvalidState) {
		s.logger.Debug().Msg("No readings yet, skipping risk snapshot")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	latest := make([]float64, 0, len(samples))
	for _, sample := range samples {
		latest = append(latest, sample.Latest)
	}

	snapshot := Snapshot{
		RiskStatsResponse: *fleet,
		Densities:         stats.Summarize(latest),
		TakenAt:           s.now().UnixMilli(),
	}
	if err := s.publisher.Publish(s.subject, snapshot); err != nil {
		return false, err
	}

	s.logger.Debug().
		Int("total", fleet.Summary.Total).
		Int("critical", fleet.Summary.Critical).
		Int("stampede", fleet.Summary.Stampede).
		Float64("p90", snapshot.Densities.P90).
		Msg("Risk snapshot published")
	return true, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Timed out waiting for running jobs")
	}
}
