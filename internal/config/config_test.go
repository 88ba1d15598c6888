package config

import (
	"testing"
	"time"
)

// TestLoadDefaults verifies the documented defaults with a clean environment.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.OpenMeteoBaseURL == "" || cfg.Port == "" || cfg.CitiesCSVPath == "" {
		t.Fatalf("missing defaults: %+v", cfg)
	}
	if cfg.Thresholds.TempCoolMax >= cfg.Thresholds.TempWarmMax {
		t.Fatalf("default temperature bands are inverted: %+v", cfg.Thresholds)
	}
}

// TestLoadRejectsInvalidTimeout verifies the HTTP_TIMEOUT parse error.
func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid HTTP_TIMEOUT")
	}
}

// TestLoadRejectsInvertedBands verifies the threshold ordering checks.
func TestLoadRejectsInvertedBands(t *testing.T) {
	t.Setenv("TEMP_COOL_MAX", "25")
	t.Setenv("TEMP_WARM_MAX", "10")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for inverted temperature bands")
	}
}

// TestLoadThresholdOverrides verifies that env overrides reach the thresholds.
func TestLoadThresholdOverrides(t *testing.T) {
	t.Setenv("WIND_STRONG_MIN", "42.5")
	t.Setenv("TREND_TOLERANCE", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Thresholds.WindStrongMin != 42.5 {
		t.Fatalf("WindStrongMin = %f, want 42.5", cfg.Thresholds.WindStrongMin)
	}
	if cfg.Thresholds.TrendTolerance != 2 {
		t.Fatalf("TrendTolerance = %f, want 2", cfg.Thresholds.TrendTolerance)
	}
}
