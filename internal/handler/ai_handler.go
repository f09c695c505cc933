package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
	"github.com/jengzang/crowdscan-backend-go/pkg/response"
)

// AIHandler handles the narrative advisory endpoints
type AIHandler struct {
	riskService *service.RiskService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(riskService *service.RiskService) *AIHandler {
	return &AIHandler{riskService: riskService}
}

// LocationRisk handles POST /api/ai/location-risk
func (h *AIHandler) LocationRisk(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.riskService.LocationSummary(c.Request.Context(), req.Location, models.ParseMode(req.Mode))
	if err != nil {
		logging.Warn(c).Err(err).Str("location", req.Location).Msg("Location risk failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GateSafety handles POST /api/ai/gate-safety
func (h *AIHandler) GateSafety(c *gin.Context) {
	req, ok := bindGateRequest(c)
	if !ok {
		return
	}

	result, err := h.riskService.GateAdvisory(c.Request.Context(), req.Location, req.Gate)
	if err != nil {
		logging.Warn(c).Err(err).Str("location", req.Location).Str("gate", req.Gate).Msg("Gate safety failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// PredictiveRisk handles POST /api/ai/predictive-risk
func (h *AIHandler) PredictiveRisk(c *gin.Context) {
	req, ok := bindGateRequest(c)
	if !ok {
		return
	}

	result, err := h.riskService.Predict(c.Request.Context(), req.Location, req.Gate)
	if err != nil {
		logging.Warn(c).Err(err).Str("location", req.Location).Str("gate", req.Gate).Msg("Predictive risk failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// CustomQuery handles POST /api/ai/custom-query
func (h *AIHandler) CustomQuery(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.riskService.Query(c.Request.Context(), req.Query)
	if err != nil {
		logging.Warn(c).Err(err).Msg("Custom query failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

func bindGateRequest(c *gin.Context) (models.GateRequest, bool) {
	var req models.GateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}
