package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/config"
	"github.com/jengzang/crowdscan-backend-go/internal/handler"
	"github.com/jengzang/crowdscan-backend-go/internal/middleware"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
)

// Services are the application services exposed over HTTP
type Services struct {
	Risk      *service.RiskService
	Ingest    *service.IngestService
	Directory *service.DirectoryService
	DB        handler.Pinger
	Alerts    handler.ConnectionChecker // nil when alerts are disabled
}

// SetupRouter builds the gin engine. The returned limiter guards the AI
// routes and must be stopped on shutdown.
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, *middleware.RateLimiter) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	crowdHandler := handler.NewCrowdHandler(svc.Ingest, svc.Directory)
	riskHandler := handler.NewRiskHandler(svc.Risk)
	aiHandler := handler.NewAIHandler(svc.Risk)
	healthHandler := handler.NewHealthHandler(svc.DB, svc.Alerts)

	officerAuth := middleware.OfficerAuth(cfg.JWTSecret, cfg.RequireOfficerToken)
	limiter := middleware.NewRateLimiter(cfg.AIRateLimit, cfg.AIRateWindow)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.POST("/crowd-data", crowdHandler.Ingest)
		api.GET("/heatmap", crowdHandler.Heatmap)
		api.GET("/zones", crowdHandler.Zones)
		api.GET("/risk-summary", officerAuth, riskHandler.Summary)
		api.GET("/risk-stats", riskHandler.Stats)

		ai := api.Group("/ai")
		ai.Use(middleware.RateLimit(limiter))
		{
			ai.POST("/location-risk", officerAuth, aiHandler.LocationRisk)
			ai.POST("/gate-safety", aiHandler.GateSafety)
			ai.POST("/predictive-risk", aiHandler.PredictiveRisk)
			ai.POST("/custom-query", aiHandler.CustomQuery)
		}
	}

	return r, limiter
}
