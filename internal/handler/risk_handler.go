package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
	"github.com/jengzang/crowdscan-backend-go/pkg/response"
)

// RiskHandler handles the fleet-wide risk endpoints
type RiskHandler struct {
	riskService *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskService *service.RiskService) *RiskHandler {
	return &RiskHandler{riskService: riskService}
}

// Summary handles GET /api/risk-summary
func (h *RiskHandler) Summary(c *gin.Context) {
	var filter models.RiskSummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	mode := models.ParseMode(filter.Mode)
	result, err := h.riskService.FleetSummary(c.Request.Context(), mode)
	if err != nil {
		logging.Error(c).Err(err).Str("mode", string(mode)).Msg("Risk summary failed")
		response.FromError(c, err)
		return
	}
	if result.NarrativeError != "" {
		logging.Warn(c).Str("narrative_error", result.NarrativeError).Msg("Risk summary returned without narrative")
	}

	response.Success(c, result)
}

// Stats handles GET /api/risk-stats
func (h *RiskHandler) Stats(c *gin.Context) {
	stats, err := h.riskService.Stats(c.Request.Context())
	if err != nil {
		logging.Warn(c).Err(err).Msg("Risk stats unavailable")
		response.FromError(c, err)
		return
	}

	response.Success(c, stats)
}
