package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionChecker reports whether a broker connection is up
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthHandler answers liveness probes
type HealthHandler struct {
	db     Pinger
	alerts ConnectionChecker // nil when alerts are disabled
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, alerts ConnectionChecker) *HealthHandler {
	return &HealthHandler{db: db, alerts: alerts}
}

// Health handles GET /health. A broken alert connection is reported but
// does not fail the probe.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	alerts := "disabled"
	if h.alerts != nil {
		alerts = "disconnected"
		if h.alerts.IsConnected() {
			alerts = "connected"
		}
	}

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"message": "database unreachable",
				"alerts":  alerts,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Crowdscan API is running",
		"alerts":  alerts,
	})
}
