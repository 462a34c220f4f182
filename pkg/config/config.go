// Package config loads and validates the application configuration: the
// airport/runway catalog, the simulator source settings, and the display
// options. Runway geometry is validated eagerly at load time so a malformed
// runway can never reach the projection code.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/unklstewy/par-scope/pkg/geometry"
)

// Config represents the complete application configuration.
type Config struct {
	Display  DisplayConfig  `json:"display"`
	Source   SourceConfig   `json:"source"`
	Database DatabaseConfig `json:"database"`

	// Airports is the runway catalog keyed by airport identifier
	Airports map[string]AirportConfig `json:"airports"`

	// ActiveAirport and ActiveRunway select the runway in effect at startup
	ActiveAirport string `json:"active_airport"`
	ActiveRunway  string `json:"active_runway"`

	// TargetCallsign locks the display onto one callsign; empty means
	// first-available target
	TargetCallsign string `json:"target_callsign"`
}

// DisplayConfig contains the scope window settings.
type DisplayConfig struct {
	// WindowWidth and WindowHeight set the viewport size in pixels
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	// FrameRateHz is the render loop tick rate
	FrameRateHz float64 `json:"frame_rate_hz"`
}

// SourceConfig selects and configures the simulator data source.
type SourceConfig struct {
	// Type is the source type: "gateway" or "xplane"
	Type string `json:"type"`

	// GatewayURL is the SimConnect gateway base URL
	GatewayURL string `json:"gateway_url"`

	// PollHz is the target fetch rate; the render loop runs faster and is
	// served from the cache between fetches
	PollHz float64 `json:"poll_hz"`

	// XPlaneRESTURL and XPlaneWSURL are the X-Plane Web API endpoints
	XPlaneRESTURL string `json:"xplane_rest_url"`
	XPlaneWSURL   string `json:"xplane_ws_url"`
}

// DatabaseConfig contains the runway catalog database settings. The
// database is optional; with no host configured the catalog comes from this
// file alone.
type DatabaseConfig struct {
	// Driver is the database driver (postgres)
	Driver string `json:"driver"`

	// Host is the database server hostname; empty disables the database
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// AirportConfig is one airport's runway set.
type AirportConfig struct {
	// Name is the human-readable airport name
	Name string `json:"name"`

	// Runways maps runway identifiers to their approach geometry
	Runways map[string]geometry.RunwayFrame `json:"runways"`
}

// Load reads configuration from a JSON file. A missing file yields the
// default configuration; a present but invalid file is an error, never a
// silent fallback.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults: a single
// demonstration approach and the local gateway source.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			WindowWidth:  1200,
			WindowHeight: 800,
			FrameRateHz:  30,
		},
		Source: SourceConfig{
			Type:          "gateway",
			GatewayURL:    "http://127.0.0.1:8765",
			PollHz:        2.0,
			XPlaneRESTURL: "http://127.0.0.1:8086/api/v2",
			XPlaneWSURL:   "ws://127.0.0.1:8086/api/v2",
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			Host:         "",
			Port:         5432,
			Database:     "parscope",
			Username:     "parscope",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Airports: map[string]AirportConfig{
			"LFPG": {
				Name: "Paris Charles de Gaulle",
				Runways: map[string]geometry.RunwayFrame{
					"16": {
						Latitude:      49.0128,
						Longitude:     2.55,
						ElevationFt:   400,
						HeadingDeg:    160,
						GlideslopeDeg: 3,
						MaxRangeNM:    10,
					},
				},
			},
		},
		ActiveAirport: "LFPG",
		ActiveRunway:  "16",
	}
}

// Validate checks the full configuration eagerly: every runway frame in the
// catalog, the active selection, and the numeric settings. A configuration
// that fails here is rejected before the display starts.
func (c *Config) Validate() error {
	if c.Display.WindowWidth <= 0 || c.Display.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Display.WindowWidth, c.Display.WindowHeight)
	}
	if c.Display.FrameRateHz <= 0 {
		return fmt.Errorf("invalid frame rate %v", c.Display.FrameRateHz)
	}
	if c.Source.PollHz <= 0 {
		return fmt.Errorf("invalid poll rate %v", c.Source.PollHz)
	}
	switch c.Source.Type {
	case "gateway", "xplane":
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	if len(c.Airports) == 0 {
		return fmt.Errorf("no airports configured")
	}
	for airportID, airport := range c.Airports {
		if len(airport.Runways) == 0 {
			return fmt.Errorf("airport %s has no runways", airportID)
		}
		for runwayID, frame := range airport.Runways {
			if err := frame.Validate(); err != nil {
				return fmt.Errorf("invalid runway %s/%s: %w", airportID, runwayID, err)
			}
		}
	}

	if _, err := c.runwayFrame(c.ActiveAirport, c.ActiveRunway); err != nil {
		return fmt.Errorf("active selection: %w", err)
	}
	return nil
}

// ActiveRunwayFrame returns the geometry of the currently selected runway.
func (c *Config) ActiveRunwayFrame() (geometry.RunwayFrame, error) {
	return c.runwayFrame(c.ActiveAirport, c.ActiveRunway)
}

// SetActive switches the active runway. The new selection is checked before
// anything changes; a bad selection is rejected and the prior selection
// stays in effect.
func (c *Config) SetActive(airportID, runwayID string) error {
	frame, err := c.runwayFrame(airportID, runwayID)
	if err != nil {
		return err
	}
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("invalid runway %s/%s: %w", airportID, runwayID, err)
	}
	c.ActiveAirport = airportID
	c.ActiveRunway = runwayID
	return nil
}

func (c *Config) runwayFrame(airportID, runwayID string) (geometry.RunwayFrame, error) {
	airport, ok := c.Airports[airportID]
	if !ok {
		return geometry.RunwayFrame{}, fmt.Errorf("unknown airport %q", airportID)
	}
	frame, ok := airport.Runways[runwayID]
	if !ok {
		return geometry.RunwayFrame{}, fmt.Errorf("unknown runway %q at airport %q", runwayID, airportID)
	}
	return frame, nil
}

// applyEnvironmentOverrides applies environment variable overrides. This
// keeps credentials and machine-local endpoints out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if dbPassword := os.Getenv("PAR_SCOPE_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if dbHost := os.Getenv("PAR_SCOPE_DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if gatewayURL := os.Getenv("PAR_SCOPE_GATEWAY_URL"); gatewayURL != "" {
		c.Source.GatewayURL = gatewayURL
	}
	if callsign := os.Getenv("PAR_SCOPE_TARGET_CALLSIGN"); callsign != "" {
		c.TargetCallsign = callsign
	}
	if pollHz := os.Getenv("PAR_SCOPE_POLL_HZ"); pollHz != "" {
		if hz, err := strconv.ParseFloat(pollHz, 64); err == nil {
			c.Source.PollHz = hz
		}
	}
}
