package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies the defaults form a complete, valid
// configuration with a resolvable active runway.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}

	frame, err := cfg.ActiveRunwayFrame()
	if err != nil {
		t.Fatalf("ActiveRunwayFrame failed: %v", err)
	}
	if frame.GlideslopeDeg <= 0 || frame.MaxRangeNM <= 0 {
		t.Errorf("Default runway frame incomplete: %+v", frame)
	}
	if cfg.Source.Type != "gateway" {
		t.Errorf("Expected default source type gateway, got %s", cfg.Source.Type)
	}
}

// TestLoadMissingFile verifies a missing config file yields defaults.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ActiveAirport != "LFPG" {
		t.Errorf("Expected default active airport, got %s", cfg.ActiveAirport)
	}
}

// TestLoadValidFile verifies a well-formed file round-trips through Load.
func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"display": {"window_width": 1024, "window_height": 600, "frame_rate_hz": 20},
		"source": {"type": "xplane", "poll_hz": 4.0},
		"airports": {
			"KSEA": {
				"name": "Seattle-Tacoma",
				"runways": {
					"16L": {"lat": 47.4639, "lon": -122.3078, "elev_ft": 433,
						"heading_deg": 160, "glideslope_deg": 3.0, "max_range_nm": 10}
				}
			}
		},
		"active_airport": "KSEA",
		"active_runway": "16L",
		"target_callsign": "ASA11"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source.Type != "xplane" || cfg.Source.PollHz != 4.0 {
		t.Errorf("Source settings not loaded: %+v", cfg.Source)
	}
	if cfg.TargetCallsign != "ASA11" {
		t.Errorf("Expected target callsign ASA11, got %s", cfg.TargetCallsign)
	}
	frame, err := cfg.ActiveRunwayFrame()
	if err != nil {
		t.Fatalf("ActiveRunwayFrame failed: %v", err)
	}
	if frame.Latitude != 47.4639 {
		t.Errorf("Expected runway lat 47.4639, got %v", frame.Latitude)
	}
}

// TestLoadInvalidJSON verifies malformed JSON is an error, not a fallback.
func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

// TestLoadRejectsInvalidRunway verifies eager catalog validation: a runway
// with a bad glideslope fails the whole load.
func TestLoadRejectsInvalidRunway(t *testing.T) {
	cfg := DefaultConfig()
	bad := cfg.Airports["LFPG"].Runways["16"]
	bad.GlideslopeDeg = 0
	cfg.Airports["LFPG"].Runways["16"] = bad

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error for zero glideslope")
	}
	if !strings.Contains(err.Error(), "LFPG/16") {
		t.Errorf("Expected error to name the runway, got: %v", err)
	}
}

// TestValidateActiveSelection verifies a dangling active selection fails.
func TestValidateActiveSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActiveRunway = "27"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unknown active runway")
	}
}

// TestSetActive verifies runway switching keeps the prior selection on a
// bad request.
func TestSetActive(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetActive("LFPG", "16"); err != nil {
		t.Errorf("Expected valid selection to succeed: %v", err)
	}

	if err := cfg.SetActive("LFPG", "34"); err == nil {
		t.Error("Expected error for unknown runway")
	}
	if cfg.ActiveRunway != "16" {
		t.Errorf("Prior selection lost after rejected switch: %s", cfg.ActiveRunway)
	}

	if err := cfg.SetActive("EGLL", "27L"); err == nil {
		t.Error("Expected error for unknown airport")
	}
	if cfg.ActiveAirport != "LFPG" {
		t.Errorf("Prior airport lost after rejected switch: %s", cfg.ActiveAirport)
	}
}

// TestEnvironmentOverrides verifies PAR_SCOPE_* variables take precedence
// over file values.
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PAR_SCOPE_DB_PASSWORD", "secret-from-env")
	t.Setenv("PAR_SCOPE_GATEWAY_URL", "http://simhost:9999")
	t.Setenv("PAR_SCOPE_TARGET_CALLSIGN", "N789XY")

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Database.Password != "secret-from-env" {
		t.Errorf("DB password override not applied: %s", loaded.Database.Password)
	}
	if loaded.Source.GatewayURL != "http://simhost:9999" {
		t.Errorf("Gateway URL override not applied: %s", loaded.Source.GatewayURL)
	}
	if loaded.TargetCallsign != "N789XY" {
		t.Errorf("Callsign override not applied: %s", loaded.TargetCallsign)
	}
}

// TestSaveRoundTrip verifies Save/Load preserves the catalog.
func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.TargetCallsign = "DAL42"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TargetCallsign != "DAL42" {
		t.Errorf("Callsign lost in round trip: %s", loaded.TargetCallsign)
	}
	frame, err := loaded.ActiveRunwayFrame()
	if err != nil {
		t.Fatalf("ActiveRunwayFrame failed after round trip: %v", err)
	}
	if frame.HeadingDeg != 160 {
		t.Errorf("Runway geometry lost in round trip: %+v", frame)
	}
}
