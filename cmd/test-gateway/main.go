package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/unklstewy/par-scope/pkg/config"
	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/simconn"
	"github.com/unklstewy/par-scope/pkg/track"
)

// main is a connectivity probe for the simulator data source.
// It connects to the configured source, polls a few frames, and prints each
// target both raw and projected onto the active runway's approach geometry.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	polls := flag.Int("polls", 5, "Number of poll cycles to run")
	flag.Parse()

	log.Println("Simulator Source Test")
	log.Println("=====================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	frame, err := cfg.ActiveRunwayFrame()
	if err != nil {
		log.Fatalf("Active runway: %v", err)
	}

	log.Printf("Source: %s", cfg.Source.Type)
	log.Printf("Runway: %s/%s  hdg %.0f°  gs %.1f°  %g nm",
		cfg.ActiveAirport, cfg.ActiveRunway,
		frame.HeadingDeg, frame.GlideslopeDeg, frame.MaxRangeNM)

	var source simconn.Source
	switch cfg.Source.Type {
	case "xplane":
		source = simconn.NewXPlaneClient(cfg.Source.XPlaneRESTURL, cfg.Source.XPlaneWSURL)
	default:
		source = simconn.NewGatewayClient(cfg.Source.GatewayURL, cfg.Source.PollHz)
	}
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	if err := simconn.ConnectWithRetry(ctx, simconn.DefaultRetryConfig(), source); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	log.Printf("✓ Connected in %v", time.Since(start).Round(time.Millisecond))

	interval := time.Second / 2
	if cfg.Source.PollHz > 0 {
		interval = time.Duration(float64(time.Second) / cfg.Source.PollHz)
	}

	for i := 0; i < *polls; i++ {
		if i > 0 {
			time.Sleep(interval)
		}

		targets := source.Poll()
		log.Printf("\nPoll #%d: %d targets (connected=%v)", i+1, len(targets), source.Connected())
		if msg := source.LastError(); msg != "" {
			log.Printf("  Last error: %s", msg)
		}

		for _, t := range targets {
			log.Printf("  %-10s id=%d", t.Callsign, t.ID)
			if !t.HasPosition() {
				log.Printf("    (no position)")
				continue
			}
			log.Printf("    Position: %.4f°, %.4f°  %.0f ft", *t.Latitude, *t.Longitude, *t.AltitudeFt)
			log.Printf("    Heading:  %.0f°  GS %.0f kt  V/S %+.0f fpm",
				t.HeadingDeg, t.GroundSpeedKts, t.VerticalSpeedFpm)

			tr := track.Project(t, frame)
			if tr == nil {
				continue
			}
			ideal := geometry.GlidepathHeightFt(tr.RangeNM, frame.GlideslopeDeg)
			log.Printf("    → Approach: %.2f nm out, %+.0f m cross, %+.0f ft vs glidepath",
				tr.RangeNM, tr.CrossTrackM, tr.HeightFt-ideal)
			if tr.RangeNM > frame.MaxRangeNM {
				log.Printf("      (beyond scope range)")
			}
		}

		selected := track.Select(targets, cfg.TargetCallsign)
		if selected != nil {
			log.Printf("  Selected: %s", selected.Callsign)
		}
	}

	log.Println("\n=====================================")
	log.Println("Test complete")
}
