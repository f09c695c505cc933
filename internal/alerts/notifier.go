package alerts

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/crowdscan-backend-go/internal/analysis/risk"
	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// Notifier publishes an alert when a gate reaches MinLevel. Repeat alerts
// for the same gate at the same or a lower level are held back for Cooldown.
type Notifier struct {
	publisher Publisher
	subject   string
	minLevel  int
	cooldown  time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[models.GateKey]sentAlert
}

type sentAlert struct {
	level int
	at    time.Time
}

// NewNotifier creates a notifier
func NewNotifier(publisher Publisher, subject string, minLevel int, cooldown time.Duration) *Notifier {
	return &Notifier{
		publisher: publisher,
		subject:   subject,
		minLevel:  minLevel,
		cooldown:  cooldown,
		logger:    logging.NewServiceLogger("alerts"),
		now:       time.Now,
		lastSent:  make(map[models.GateKey]sentAlert),
	}
}

// Notify classifies the sample and publishes an alert if it qualifies.
// It returns the alert that was published, or nil.
func (n *Notifier) Notify(sample models.TrendSample) (*models.Alert, error) {
	result := risk.ClassifySample(sample)
	if result.RiskLevel < n.minLevel {
		return nil, nil
	}

	key := models.GateKey{LocationID: sample.LocationID, GateID: sample.GateID}
	now := n.now()

	n.mu.Lock()
	last, seen := n.lastSent[key]
	if seen && result.RiskLevel <= last.level && now.Sub(last.at) < n.cooldown {
		n.mu.Unlock()
		n.logger.Debug().
			Str("location_id", key.LocationID).
			Str("gate_id", key.GateID).
			Msg("Alert blocked by cooldown")
		return nil, nil
	}
	n.lastSent[key] = sentAlert{level: result.RiskLevel, at: now}
	n.mu.Unlock()

	alert := &models.Alert{
		LocationID: sample.LocationID,
		GateID:     sample.GateID,
		Latest:     sample.Latest,
		Trend:      sample.Trend,
		Tag:        result.Tag,
		RiskLevel:  result.RiskLevel,
		Color:      result.Color,
		RaisedAt:   now.UnixMilli(),
	}

	if err := n.publisher.Publish(n.subject, alert); err != nil {
		n.mu.Lock()
		delete(n.lastSent, key)
		n.mu.Unlock()
		return nil, err
	}

	n.logger.Info().
		Str("location_id", alert.LocationID).
		Str("gate_id", alert.GateID).
		Str("tag", string(alert.Tag)).
		Float64("latest", alert.Latest).
		Msg("Risk alert published")
	return alert, nil
}
