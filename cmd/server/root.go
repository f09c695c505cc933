package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jengzang/crowdscan-backend-go/internal/config"
	"github.com/jengzang/crowdscan-backend-go/internal/database"
	"github.com/jengzang/crowdscan-backend-go/internal/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crowdscan",
	Short: "Crowdscan - crowd density risk backend",
	Long: `Crowdscan ingests crowd-density readings per gate, classifies every gate into
a risk tier from its latest density and trend, and serves summaries, gate
advisories and short forecasts over HTTP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	},
}

func openDB() (*database.DB, error) {
	return database.Open(database.Config{Path: cfg.DBPath})
}
