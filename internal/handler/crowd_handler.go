package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
	"github.com/jengzang/crowdscan-backend-go/pkg/response"
)

// CrowdHandler handles reading ingestion and the directory views
type CrowdHandler struct {
	ingestService    *service.IngestService
	directoryService *service.DirectoryService
}

// NewCrowdHandler creates a new crowd handler
func NewCrowdHandler(ingestService *service.IngestService, directoryService *service.DirectoryService) *CrowdHandler {
	return &CrowdHandler{
		ingestService:    ingestService,
		directoryService: directoryService,
	}
}

// Ingest handles POST /api/crowd-data
func (h *CrowdHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), req)
	if err != nil {
		logging.Warn(c).Err(err).Str("location_id", req.LocationID).Str("gate_id", req.GateID).Msg("Ingest failed")
		response.FromError(c, err)
		return
	}

	response.Created(c, result.Message, result)
}

// Heatmap handles GET /api/heatmap
func (h *CrowdHandler) Heatmap(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.directoryService.Heatmap(c.Request.Context(), filter.LocationID)
	if err != nil {
		logging.Error(c).Err(err).Msg("Heatmap failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, entries)
}

// Zones handles GET /api/zones
func (h *CrowdHandler) Zones(c *gin.Context) {
	locations, err := h.directoryService.Zones(c.Request.Context())
	if err != nil {
		logging.Error(c).Err(err).Msg("Zones failed")
		response.FromError(c, err)
		return
	}

	response.Success(c, locations)
}
