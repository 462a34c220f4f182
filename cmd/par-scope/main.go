package main

import (
	"context"
	"log"
	"os"

	"github.com/unklstewy/par-scope/internal/db"
	"github.com/unklstewy/par-scope/internal/display"
	"github.com/unklstewy/par-scope/pkg/config"
	"github.com/unklstewy/par-scope/pkg/simconn"
)

// main is the entry point for the PAR scope terminal display.
// It loads configuration, optionally merges the database runway catalog,
// builds the configured simulator source, and runs the display.
func main() {
	// Config path can be overridden with CONFIG_PATH environment variable
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded from %s", configPath)
	log.Printf("Active runway: %s/%s", cfg.ActiveAirport, cfg.ActiveRunway)
	log.Printf("Source: %s", cfg.Source.Type)

	// Merge the database catalog when one is configured; file-defined
	// airports win on conflicts so a local override always works.
	if cfg.Database.Host != "" {
		mergeDatabaseCatalog(cfg)
	}

	source := buildSource(cfg)

	// One connection attempt at startup; after that reconnecting is an
	// explicit user action.
	if err := source.Connect(); err != nil {
		log.Printf("Simulator not reachable yet (press c to retry): %v", err)
	}

	app, err := display.NewApp(cfg, configPath, source)
	if err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Display terminated: %v", err)
	}
}

// buildSource creates the simulator data source named by the configuration.
func buildSource(cfg *config.Config) simconn.Source {
	switch cfg.Source.Type {
	case "xplane":
		return simconn.NewXPlaneClient(cfg.Source.XPlaneRESTURL, cfg.Source.XPlaneWSURL)
	default:
		return simconn.NewGatewayClient(cfg.Source.GatewayURL, cfg.Source.PollHz)
	}
}

// mergeDatabaseCatalog loads airports from the runway database. Database
// problems degrade to the file catalog; they never stop the display.
func mergeDatabaseCatalog(cfg *config.Config) {
	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Printf("Runway database unavailable, using file catalog: %v", err)
		return
	}
	defer database.Close()

	repo := db.NewRunwayRepository(database)
	catalog, err := repo.LoadCatalog(context.Background())
	if err != nil {
		log.Printf("Failed to load runway catalog: %v", err)
		return
	}

	added := 0
	for icao, airport := range catalog {
		if _, exists := cfg.Airports[icao]; exists {
			continue
		}
		cfg.Airports[icao] = airport
		added++
	}
	log.Printf("Runway catalog: %d airports from database", added)
}
