package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the snapshot database
	Port           int
	LogLevel       string
	DevMode        bool
	StartYearsBack int      // Default calendar window start, years before today
	EndYearsAhead  int      // Default calendar window end, years after today
	Calendars      []string // Calendars warmed at startup and on refresh
	RefreshCron    string   // Cron expression for the schedule refresh job
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        dataDir,
		Port:           getEnvAsInt("PORT", 8001),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		StartYearsBack: getEnvAsInt("CAL_START_YEARS_BACK", 20),
		EndYearsAhead:  getEnvAsInt("CAL_END_YEARS_AHEAD", 1),
		Calendars:      getEnvAsList("DEFAULT_CALENDARS", []string{"XNYS", "XTAL", "XLIT", "XRIS", "24/7"}),
		RefreshCron:    getEnv("REFRESH_CRON", "30 0 * * *"), // daily, shortly after the UTC date rolls over
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.StartYearsBack < 0 || c.EndYearsAhead < 0 {
		return fmt.Errorf("calendar window years must be non-negative")
	}
	return nil
}

// SnapshotDBPath returns the path of the schedule snapshot database.
func (c *Config) SnapshotDBPath() string {
	return filepath.Join(c.DataDir, "schedules.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
