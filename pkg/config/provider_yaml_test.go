package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/windatlas/forecasts.db
source:
  endpoint: https://grid.example.com/v1/wind
  timeout: 2m
  region:
    lat_min: 35
    lat_max: 72
    lon_min: -25
    lon_max: 40
countries:
  geojson_path: /etc/windatlas/countries.geojson
artifacts:
  dir: /var/lib/windatlas/plots
scheduler:
  interval_hours: 6
rest:
  listen_addr: 127.0.0.1
  port: 9090
`)

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Database.Path != "/var/lib/windatlas/forecasts.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Source.Endpoint != "https://grid.example.com/v1/wind" {
		t.Errorf("source.endpoint = %q", cfg.Source.Endpoint)
	}
	if cfg.Source.Timeout != 2*time.Minute {
		t.Errorf("source.timeout = %v, expected 2m", cfg.Source.Timeout)
	}
	if cfg.Source.Region.LatMin != 35 || cfg.Source.Region.LonMax != 40 {
		t.Errorf("region = %+v", cfg.Source.Region)
	}
	if cfg.Countries.GeoJSONPath != "/etc/windatlas/countries.geojson" {
		t.Errorf("countries.geojson_path = %q", cfg.Countries.GeoJSONPath)
	}
	if cfg.Scheduler.IntervalHours != 6 {
		t.Errorf("scheduler.interval_hours = %d", cfg.Scheduler.IntervalHours)
	}
	if cfg.REST.ListenAddr != "127.0.0.1" || cfg.REST.Port != 9090 {
		t.Errorf("rest = %+v", cfg.REST)
	}
}

func TestYAMLProviderInvalidTimeout(t *testing.T) {
	path := writeConfig(t, `
database:
  path: forecasts.db
source:
  endpoint: https://grid.example.com/v1/wind
  timeout: not-a-duration
`)

	if _, err := NewYAMLProvider(path).LoadConfig(); err == nil {
		t.Fatal("expected error for invalid source.timeout")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider("/nonexistent/config.yaml").LoadConfig(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
