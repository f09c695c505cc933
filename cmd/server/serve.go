package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jengzang/crowdscan-backend-go/internal/alerts"
	"github.com/jengzang/crowdscan-backend-go/internal/api"
	"github.com/jengzang/crowdscan-backend-go/internal/jobs"
	"github.com/jengzang/crowdscan-backend-go/internal/narrative"
	"github.com/jengzang/crowdscan-backend-go/internal/repository"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newNarrator() narrative.Requester {
	if !cfg.NarrativeEnabled() {
		log.Warn().Msg("NARRATIVE_API_KEY not set, narratives disabled")
		return narrative.Disabled{}
	}
	return narrative.NewClient(narrative.Config{
		APIKey:    cfg.NarrativeAPIKey,
		BaseURL:   cfg.NarrativeBaseURL,
		Model:     cfg.NarrativeModel,
		MaxTokens: cfg.NarrativeMaxTokens,
		Timeout:   cfg.NarrativeTimeout,
	})
}

func newPublisher() alerts.Publisher {
	if !cfg.AlertsEnabled() {
		log.Info().Msg("NATS_URL not set, alerts disabled")
		return alerts.Noop{}
	}
	publisher, err := alerts.NewNATSPublisher(alerts.NATSConfig{URL: cfg.NatsURL})
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.NatsURL).Msg("Failed to connect to NATS, alerts disabled")
		return alerts.Noop{}
	}
	return publisher
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	readings := repository.NewReadingRepository(db)
	locations := repository.NewLocationRepository(db)
	publisher := newPublisher()
	notifier := alerts.NewNotifier(publisher, cfg.AlertsSubject, cfg.AlertsMinLevel, cfg.AlertsCooldown)

	riskService := service.NewRiskService(readings, locations, newNarrator(), cfg.RiskWindowSize, cfg.StoreTimeout)
	ingestService := service.NewIngestService(readings, notifier, cfg.RiskWindowSize, cfg.StoreTimeout)
	directoryService := service.NewDirectoryService(readings, locations, cfg.RiskWindowSize, cfg.StoreTimeout)

	scheduler := jobs.NewScheduler(riskService, publisher, cfg.StatsSubject, cfg.StoreTimeout)
	if cfg.SnapshotSchedule != "" && cfg.AlertsEnabled() {
		if err := scheduler.ScheduleSnapshot(cfg.SnapshotSchedule); err != nil {
			return fmt.Errorf("invalid SNAPSHOT_SCHEDULE %q: %w", cfg.SnapshotSchedule, err)
		}
	}
	scheduler.Start()

	services := api.Services{
		Risk:      riskService,
		Ingest:    ingestService,
		Directory: directoryService,
		DB:        db,
	}
	if nc, ok := publisher.(*alerts.NATSPublisher); ok {
		services.Alerts = nc
	}
	router, limiter := api.SetupRouter(cfg, services)
	defer limiter.Stop()

	server := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Port).Str("db", db.Path()).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	scheduler.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := publisher.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Alert publisher shutdown failed")
	}
	log.Info().Msg("Server stopped")
	return nil
}
