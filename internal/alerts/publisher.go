// Package alerts fans severe gate conditions and periodic risk snapshots out
// to subscribers over NATS.
package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher sends JSON payloads to a subject
type Publisher interface {
	Publish(subject string, data interface{}) error
	Shutdown(ctx context.Context) error
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	URL            string
	Name           string
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

// NATSPublisher publishes over a NATS connection
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at cfg.URL
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.Name == "" {
		cfg.Name = "crowdscan"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = 10
	}

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().Str("url", cfg.URL).Msg("NATS connection established")
	return &NATSPublisher{conn: conn}, nil
}

// Publish marshals data to JSON and publishes it
func (p *NATSPublisher) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

// IsConnected reports whether the connection is up
func (p *NATSPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Shutdown drains the connection and waits until it is closed or ctx is
// done. Queued alerts are flushed unless ctx expires first.
func (p *NATSPublisher) Shutdown(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		p.conn.Close()
		return nil
	}
	if err := waitClosed(ctx, p.conn.IsClosed, 10*time.Millisecond); err != nil {
		log.Warn().Err(err).Msg("Timed out draining NATS connection, closing immediately")
		p.conn.Close()
		return err
	}
	return nil
}

func waitClosed(ctx context.Context, closed func() bool, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !closed() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Noop discards everything. Used when NATS is not configured.
type Noop struct{}

func (Noop) Publish(string, interface{}) error { return nil }
func (Noop) Shutdown(context.Context) error    { return nil }
