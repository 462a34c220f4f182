package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/unklstewy/par-scope/internal/db"
	"github.com/unklstewy/par-scope/pkg/config"
)

// Runway Catalog Importer
// Loads airport and runway approach geometry from a JSON catalog file into
// PostgreSQL so every display instance shares one set of surveyed thresholds.
//
// The catalog file uses the same shape as the "airports" section of the
// display configuration:
//
//	{
//	  "LFPG": {
//	    "name": "Paris Charles de Gaulle",
//	    "runways": {
//	      "16": {"lat": 49.0128, "lon": 2.55, "elev_ft": 400,
//	             "heading_deg": 160, "glideslope_deg": 3.0, "max_range_nm": 10}
//	    }
//	  }
//	}

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	catalogPath := flag.String("catalog", "", "Path to airport catalog JSON (defaults to the config file's airports)")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  Runway Catalog Importer")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Database.Host == "" {
		log.Fatal("No database configured; set database.host in the configuration")
	}

	airports := cfg.Airports
	if *catalogPath != "" {
		airports, err = loadCatalogFile(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	log.Println("Connecting to database...")
	database, err := db.ReconnectWithRetry(cfg.Database, 5, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("✓ Database connected")

	ctx := context.Background()
	if err := database.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("✓ Schema initialized")

	repo := db.NewRunwayRepository(database)

	airportCount := 0
	runwayCount := 0
	skipped := 0

	icaos := make([]string, 0, len(airports))
	for icao := range airports {
		icaos = append(icaos, icao)
	}
	sort.Strings(icaos)

	for _, icao := range icaos {
		airport := airports[icao]
		if err := repo.UpsertAirport(ctx, db.Airport{ICAO: icao, Name: airport.Name}); err != nil {
			log.Fatalf("Failed to upsert airport %s: %v", icao, err)
		}
		airportCount++

		idents := make([]string, 0, len(airport.Runways))
		for ident := range airport.Runways {
			idents = append(idents, ident)
		}
		sort.Strings(idents)

		for _, ident := range idents {
			err := db.WithRetry(func() error {
				return repo.UpsertRunway(ctx, icao, ident, airport.Runways[ident])
			}, 3)
			if err != nil {
				log.Printf("Warning: skipped %s/%s: %v", icao, ident, err)
				skipped++
				continue
			}
			runwayCount++
		}
	}

	stats, err := database.GetStats(ctx)
	if err != nil {
		log.Printf("Warning: failed to read database stats: %v", err)
	}

	catalog, err := repo.Catalog(ctx)
	if err != nil {
		log.Printf("Warning: failed to read back catalog: %v", err)
	}

	log.Println("\n===========================================")
	log.Println("Import Complete")
	log.Println("===========================================")
	log.Printf("Airports imported: %d", airportCount)
	log.Printf("Runways imported:  %d", runwayCount)
	if skipped > 0 {
		log.Printf("Runways skipped:   %d (invalid geometry)", skipped)
	}
	if stats != nil {
		log.Printf("Database totals:   %d airports, %d runways", stats.Airports, stats.Runways)
	}
	if catalog != nil {
		log.Printf("Catalog serves:    %s", strings.Join(catalog.Airports(), ", "))
	}
}

// loadCatalogFile reads a standalone airport catalog JSON file.
func loadCatalogFile(path string) (map[string]config.AirportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var airports map[string]config.AirportConfig
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return airports, nil
}
