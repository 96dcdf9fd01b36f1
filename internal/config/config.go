// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/growth-dashboard-tui/internal/metrics"
)

// Config holds the application configuration.
type Config struct {
	DataDir      string
	RevenuePath  string
	EnergyPath   string
	CountiesPath string

	GeoJSONURL      string
	GeoFetchTimeout time.Duration
	GeoCacheTTL     time.Duration
	DatabasePath    string

	ThemePath  string
	Theme      Theme
	ZeroPolicy metrics.ZeroDivisorPolicy

	WatchData     bool
	DesktopNotify bool
	ReportPath    string

	LogFile  string
	LogLevel string
}

// Default values
const (
	defaultDataDir         = "data"
	defaultRevenueFile     = "revenue.csv"
	defaultEnergyFile      = "energy_delivery.csv"
	defaultCountiesFile    = "Texas_counties_consumers.csv"
	defaultGeoJSONURL      = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"
	defaultGeoFetchTimeout = 30 * time.Second
	defaultGeoCacheTTL     = 7 * 24 * time.Hour
	defaultReportPath      = "report.html"
	defaultLogLevel        = "info"
	appDirName             = "growth-dashboard"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	dataDir := getEnvString("DATA_DIR", defaultDataDir)

	cfg := &Config{
		DataDir:         dataDir,
		RevenuePath:     getEnvString("REVENUE_CSV", filepath.Join(dataDir, defaultRevenueFile)),
		EnergyPath:      getEnvString("ENERGY_CSV", filepath.Join(dataDir, defaultEnergyFile)),
		CountiesPath:    getEnvString("COUNTIES_CSV", filepath.Join(dataDir, defaultCountiesFile)),
		GeoJSONURL:      getEnvString("GEOJSON_URL", defaultGeoJSONURL),
		GeoFetchTimeout: getEnvDuration("GEO_FETCH_TIMEOUT", defaultGeoFetchTimeout),
		GeoCacheTTL:     getEnvDuration("GEO_CACHE_TTL", defaultGeoCacheTTL),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ThemePath:       getEnvString("THEME_PATH", getDefaultThemePath()),
		WatchData:       getEnvBool("WATCH_DATA", true),
		DesktopNotify:   getEnvBool("DESKTOP_NOTIFY", false),
		ReportPath:      getEnvString("REPORT_PATH", defaultReportPath),
		LogFile:         getEnvString("LOG_FILE", ""),
		LogLevel:        getEnvString("LOG_LEVEL", defaultLogLevel),
	}

	policy, err := metrics.ParsePolicy(os.Getenv("GROWTH_ZERO_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid GROWTH_ZERO_POLICY: %w", err)
	}
	cfg.ZeroPolicy = policy

	theme, err := LoadTheme(cfg.ThemePath)
	if err != nil {
		return nil, err
	}
	cfg.Theme = theme

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite boundary cache.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cache.db"
	}
	return filepath.Join(home, ".config", appDirName, "cache.db")
}

func getDefaultThemePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName, "theme.yaml")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms understood by strconv.ParseBool plus yes/no and on/off.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
