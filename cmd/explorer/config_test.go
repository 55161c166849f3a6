package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
directory:
  listings_url: http://localhost/hosts
  categories_url: http://localhost/categories
`)

	cfg, err := newConfig(path)
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}

	if cfg.Directory.Timeout != 15*time.Second {
		t.Errorf("timeout = %s", cfg.Directory.Timeout)
	}
	if cfg.Language.Default != "en" || len(cfg.Language.Tags) != 3 {
		t.Errorf("language = %+v", cfg.Language)
	}
	if cfg.Cluster.Radius != 40 || cfg.Cluster.TileSize != 256 || cfg.Cluster.MaxZoom != 16 {
		t.Errorf("cluster = %+v", cfg.Cluster)
	}
	if cfg.Viewport.LatitudeDelta != 0.0922 || cfg.Viewport.LongitudeDelta != 0.0421 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Device.Granted || cfg.Device.Fix != nil {
		t.Errorf("device = %+v", cfg.Device)
	}
}

func TestNewConfigFull(t *testing.T) {
	path := writeConfig(t, `
directory:
  listings_url: http://localhost/hosts
  categories_url: http://localhost/categories
  timeout: 5s
  headers:
    User-Agent: test
language:
  default: ar
  tags: [ar, en]
cluster:
  radius_px: 60
  max_zoom: 14
device:
  granted: true
  fix:
    lat: 35.7595
    lng: -5.834
`)

	cfg, err := newConfig(path)
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}

	if cfg.Directory.Timeout != 5*time.Second || cfg.Directory.Headers["User-Agent"] != "test" {
		t.Errorf("directory = %+v", cfg.Directory)
	}
	if cfg.Language.Default != "ar" || len(cfg.Language.Tags) != 2 {
		t.Errorf("language = %+v", cfg.Language)
	}
	if cfg.Cluster.Radius != 60 || cfg.Cluster.MaxZoom != 14 || cfg.Cluster.TileSize != 256 {
		t.Errorf("cluster = %+v", cfg.Cluster)
	}
	if !cfg.Device.Granted || cfg.Device.Fix == nil || cfg.Device.Fix.Lat != 35.7595 {
		t.Errorf("device = %+v", cfg.Device)
	}
}

func TestNewConfigErrors(t *testing.T) {
	if _, err := newConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	if _, err := newConfig(writeConfig(t, "directory: [")); err == nil {
		t.Error("expected an error for bad yaml")
	}

	if _, err := newConfig(writeConfig(t, "language:\n  default: en\n")); err == nil {
		t.Error("expected an error without directory urls")
	}

	bad := `
directory:
  listings_url: http://localhost/hosts
  categories_url: http://localhost/categories
device:
  fix:
    lat: 120
    lng: 0
`
	if _, err := newConfig(writeConfig(t, bad)); err == nil {
		t.Error("expected an error for an out of range fix")
	}
}
