package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/growth-dashboard-tui/internal/metrics"
)

var configEnvKeys = []string{
	"DATA_DIR", "REVENUE_CSV", "ENERGY_CSV", "COUNTIES_CSV",
	"GEOJSON_URL", "GEO_FETCH_TIMEOUT", "GEO_CACHE_TTL", "DATABASE_PATH",
	"THEME_PATH", "GROWTH_ZERO_POLICY", "WATCH_DATA", "DESKTOP_NOTIFY",
	"REPORT_PATH", "LOG_FILE", "LOG_LEVEL",
}

// isolate clears config variables and points HOME and the working directory
// at a fresh temp dir so no real .env or theme file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	for _, key := range configEnvKeys {
		if val, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}

	t.Setenv("HOME", tmpDir)

	wd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Hours", "168h", time.Second, 168 * time.Hour},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"ON", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.envVal, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvBool(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.envVal, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	if got, want := getDefaultDatabasePath(), filepath.Join(home, ".config", "growth-dashboard", "cache.db"); got != want {
		t.Errorf("getDefaultDatabasePath() = %q, want %q", got, want)
	}
	if got, want := getDefaultThemePath(), filepath.Join(home, ".config", "growth-dashboard", "theme.yaml"); got != want {
		t.Errorf("getDefaultThemePath() = %q, want %q", got, want)
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RevenuePath != filepath.Join("data", "revenue.csv") {
		t.Errorf("RevenuePath = %q", cfg.RevenuePath)
	}
	if cfg.CountiesPath != filepath.Join("data", "Texas_counties_consumers.csv") {
		t.Errorf("CountiesPath = %q", cfg.CountiesPath)
	}
	if cfg.GeoJSONURL != defaultGeoJSONURL {
		t.Errorf("GeoJSONURL = %q", cfg.GeoJSONURL)
	}
	if cfg.GeoFetchTimeout != defaultGeoFetchTimeout || cfg.GeoCacheTTL != defaultGeoCacheTTL {
		t.Errorf("geo durations = %v / %v", cfg.GeoFetchTimeout, cfg.GeoCacheTTL)
	}
	if cfg.ZeroPolicy != metrics.PolicyNaN {
		t.Errorf("ZeroPolicy = %v, want nan", cfg.ZeroPolicy)
	}
	if !cfg.WatchData || cfg.DesktopNotify {
		t.Errorf("WatchData = %v, DesktopNotify = %v", cfg.WatchData, cfg.DesktopNotify)
	}
	if diff := cmp.Diff(DefaultTheme(), cfg.Theme); diff != "" {
		t.Errorf("theme mismatch (-want +got):\n%s", diff)
	}

	dbDir := filepath.Join(tmpDir, ".config", "growth-dashboard")
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestLoad_DataDirOverride(t *testing.T) {
	isolate(t)
	t.Setenv("DATA_DIR", "/srv/growth")
	t.Setenv("ENERGY_CSV", "/tmp/energy.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RevenuePath != filepath.Join("/srv/growth", "revenue.csv") {
		t.Errorf("RevenuePath = %q", cfg.RevenuePath)
	}
	if cfg.EnergyPath != "/tmp/energy.csv" {
		t.Errorf("EnergyPath = %q, explicit path should win", cfg.EnergyPath)
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	isolate(t)
	t.Setenv("GROWTH_ZERO_POLICY", "ignore")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an unknown zero divisor policy")
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)

	content := "GROWTH_ZERO_POLICY=exclude\nDESKTOP_NOTIFY=true\nGEO_CACHE_TTL=3600"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("GROWTH_ZERO_POLICY")
		os.Unsetenv("DESKTOP_NOTIFY")
		os.Unsetenv("GEO_CACHE_TTL")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ZeroPolicy != metrics.PolicyExclude {
		t.Errorf("ZeroPolicy = %v, want exclude", cfg.ZeroPolicy)
	}
	if !cfg.DesktopNotify {
		t.Error("DesktopNotify should be true")
	}
	if cfg.GeoCacheTTL != time.Hour {
		t.Errorf("GeoCacheTTL = %v, want 1h", cfg.GeoCacheTTL)
	}
}

func TestLoad_InvalidTheme(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "theme.yaml")
	if err := os.WriteFile(path, []byte("palette: [\"#000000\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("THEME_PATH", path)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an invalid theme")
	}
}
