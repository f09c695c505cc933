package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jengzang/crowdscan-backend-go/internal/alerts"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/repository"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
)

const (
	simulateMinDensity = 2.5
	simulateMaxDensity = 9.8
)

var (
	simulateInterval time.Duration
	simulateRounds   int
	simulateSeed     int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Write random density readings for every gate",
	Long: `Write a random density between 2.5 and 9.8 for every gate in the directory
on each tick, through the same ingestion path the HTTP API uses. Runs until
interrupted unless --rounds is set.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().DurationVar(&simulateInterval, "interval", 5*time.Second, "Time between rounds")
	simulateCmd.Flags().IntVar(&simulateRounds, "rounds", 0, "Stop after this many rounds (0 = run until interrupted)")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Random seed (0 = time based)")
}

func simulatedDensity(rng *rand.Rand) float64 {
	d := simulateMinDensity + rng.Float64()*(simulateMaxDensity-simulateMinDensity)
	return math.Round(d*100) / 100
}

func runSimulate(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locations, err := repository.NewLocationRepository(db).ListAll(ctx)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return fmt.Errorf("no monitored locations, run 'crowdscan seed' first")
	}

	publisher := newPublisher()
	defer publisher.Shutdown(context.Background())
	notifier := alerts.NewNotifier(publisher, cfg.AlertsSubject, cfg.AlertsMinLevel, cfg.AlertsCooldown)
	ingest := service.NewIngestService(repository.NewReadingRepository(db), notifier, cfg.RiskWindowSize, cfg.StoreTimeout)

	seed := simulateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ticker := time.NewTicker(simulateInterval)
	defer ticker.Stop()

	for round := 1; ; round++ {
		simulateRound(ctx, ingest, locations, rng)
		if simulateRounds > 0 && round >= simulateRounds {
			return nil
		}

		select {
		case <-ctx.Done():
			log.Info().Int("rounds", round).Msg("Simulator stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func simulateRound(ctx context.Context, ingest *service.IngestService, locations []models.Location, rng *rand.Rand) {
	for _, loc := range locations {
		for _, g := range loc.Gates {
			d := simulatedDensity(rng)
			result, err := ingest.Ingest(ctx, models.IngestRequest{
				LocationID: loc.LocationID,
				GateID:     g.GateID,
				Density:    &d,
			})
			if err != nil {
				log.Error().Err(err).Str("location_id", loc.LocationID).Str("gate_id", g.GateID).Msg("Failed to write reading")
				continue
			}

			event := log.Info().
				Str("location_id", loc.LocationID).
				Str("gate_id", g.GateID).
				Float64("density", d).
				Bool("alerted", result.Alerted)
			if result.Status != nil {
				event.Str("tag", string(result.Status.Tag))
			}
			event.Msg("Reading sent")
		}
	}
}
