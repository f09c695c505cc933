package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultWindowSize is the number of recent readings reduced per gate
const DefaultWindowSize = 3

// Config holds the application configuration
type Config struct {
	Port    string
	DBPath  string
	GinMode string

	LogLevel  string
	LogFormat string // "console" or "json"

	RiskWindowSize int
	StoreTimeout   time.Duration

	NarrativeAPIKey    string
	NarrativeBaseURL   string
	NarrativeModel     string
	NarrativeTimeout   time.Duration
	NarrativeMaxTokens int

	NatsURL          string
	AlertsSubject    string
	AlertsMinLevel   int
	AlertsCooldown   time.Duration
	StatsSubject     string
	SnapshotSchedule string

	JWTSecret           string
	RequireOfficerToken bool

	AIRateLimit  int
	AIRateWindow time.Duration

	MapsAPIKey string

	ShutdownTimeout time.Duration
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":5000")
	v.SetDefault("DB_PATH", "./data/crowdscan.db")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("RISK_WINDOW_SIZE", DefaultWindowSize)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)

	v.SetDefault("NARRATIVE_API_KEY", "")
	v.SetDefault("NARRATIVE_BASE_URL", "")
	v.SetDefault("NARRATIVE_MODEL", "gpt-4o-mini")
	v.SetDefault("NARRATIVE_TIMEOUT", 15*time.Second)
	v.SetDefault("NARRATIVE_MAX_TOKENS", 200)

	v.SetDefault("NATS_URL", "")
	v.SetDefault("ALERTS_SUBJECT", "crowd.alerts")
	v.SetDefault("ALERTS_MIN_LEVEL", 4)
	v.SetDefault("ALERTS_COOLDOWN", 30*time.Second)
	v.SetDefault("STATS_SUBJECT", "crowd.stats")
	v.SetDefault("SNAPSHOT_SCHEDULE", "@every 1m")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REQUIRE_OFFICER_TOKEN", false)

	v.SetDefault("AI_RATE_LIMIT", 30)
	v.SetDefault("AI_RATE_WINDOW", time.Minute)

	v.SetDefault("MAPS_API_KEY", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads .env (if present) and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:    v.GetString("PORT"),
		DBPath:  v.GetString("DB_PATH"),
		GinMode: v.GetString("GIN_MODE"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		RiskWindowSize: v.GetInt("RISK_WINDOW_SIZE"),
		StoreTimeout:   v.GetDuration("STORE_TIMEOUT"),

		NarrativeAPIKey:    v.GetString("NARRATIVE_API_KEY"),
		NarrativeBaseURL:   v.GetString("NARRATIVE_BASE_URL"),
		NarrativeModel:     v.GetString("NARRATIVE_MODEL"),
		NarrativeTimeout:   v.GetDuration("NARRATIVE_TIMEOUT"),
		NarrativeMaxTokens: v.GetInt("NARRATIVE_MAX_TOKENS"),

		NatsURL:          v.GetString("NATS_URL"),
		AlertsSubject:    v.GetString("ALERTS_SUBJECT"),
		AlertsMinLevel:   v.GetInt("ALERTS_MIN_LEVEL"),
		AlertsCooldown:   v.GetDuration("ALERTS_COOLDOWN"),
		StatsSubject:     v.GetString("STATS_SUBJECT"),
		SnapshotSchedule: v.GetString("SNAPSHOT_SCHEDULE"),

		JWTSecret:           v.GetString("JWT_SECRET"),
		RequireOfficerToken: v.GetBool("REQUIRE_OFFICER_TOKEN"),

		AIRateLimit:  v.GetInt("AI_RATE_LIMIT"),
		AIRateWindow: v.GetDuration("AI_RATE_WINDOW"),

		MapsAPIKey: v.GetString("MAPS_API_KEY"),

		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.RiskWindowSize < 1 {
		log.Warn().Int("window", cfg.RiskWindowSize).Msg("Invalid RISK_WINDOW_SIZE, using default")
		cfg.RiskWindowSize = DefaultWindowSize
	}
	return cfg
}

// NarrativeEnabled reports whether an API key for the narrative service is set
func (c *Config) NarrativeEnabled() bool {
	return c.NarrativeAPIKey != ""
}

// Validate rejects settings the server cannot run safely with
func (c *Config) Validate() error {
	if c.RequireOfficerToken && c.JWTSecret == "" {
		return errors.New("REQUIRE_OFFICER_TOKEN is set but JWT_SECRET is empty")
	}
	return nil
}

// AlertsEnabled reports whether a NATS server is configured
func (c *Config) AlertsEnabled() bool {
	return c.NatsURL != ""
}
