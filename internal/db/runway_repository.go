package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/unklstewy/par-scope/pkg/config"
	"github.com/unklstewy/par-scope/pkg/geometry"
)

// Airport is one catalog airport row.
type Airport struct {
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

// Runway is one catalog runway row with its approach geometry.
type Runway struct {
	ID          int                  `json:"id"`
	AirportICAO string               `json:"airportIcao"`
	Ident       string               `json:"ident"`
	Frame       geometry.RunwayFrame `json:"frame"`
}

// RunwayRepository provides catalog access for airports and runways.
type RunwayRepository struct {
	db *DB
}

// NewRunwayRepository creates a runway repository.
func NewRunwayRepository(db *DB) *RunwayRepository {
	return &RunwayRepository{db: db}
}

// ListAirports returns all catalog airports sorted by identifier.
func (r *RunwayRepository) ListAirports(ctx context.Context) ([]Airport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT icao, name FROM airports ORDER BY icao ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []Airport
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.ICAO, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan airport: %w", err)
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

// ListRunways returns all runways for an airport sorted by identifier.
func (r *RunwayRepository) ListRunways(ctx context.Context, airportICAO string) ([]Runway, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, airport_icao, ident, latitude, longitude, elevation_ft,
		       heading_deg, glideslope_deg, max_range_nm
		FROM runways
		WHERE airport_icao = $1
		ORDER BY ident ASC
	`, airportICAO)
	if err != nil {
		return nil, fmt.Errorf("failed to query runways: %w", err)
	}
	defer rows.Close()

	var runways []Runway
	for rows.Next() {
		var rw Runway
		err := rows.Scan(
			&rw.ID,
			&rw.AirportICAO,
			&rw.Ident,
			&rw.Frame.Latitude,
			&rw.Frame.Longitude,
			&rw.Frame.ElevationFt,
			&rw.Frame.HeadingDeg,
			&rw.Frame.GlideslopeDeg,
			&rw.Frame.MaxRangeNM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan runway: %w", err)
		}
		runways = append(runways, rw)
	}
	return runways, rows.Err()
}

// GetRunway returns one runway's approach geometry.
func (r *RunwayRepository) GetRunway(ctx context.Context, airportICAO, ident string) (*Runway, error) {
	var rw Runway
	err := r.db.QueryRowContext(ctx, `
		SELECT id, airport_icao, ident, latitude, longitude, elevation_ft,
		       heading_deg, glideslope_deg, max_range_nm
		FROM runways
		WHERE airport_icao = $1 AND ident = $2
	`, airportICAO, ident).Scan(
		&rw.ID,
		&rw.AirportICAO,
		&rw.Ident,
		&rw.Frame.Latitude,
		&rw.Frame.Longitude,
		&rw.Frame.ElevationFt,
		&rw.Frame.HeadingDeg,
		&rw.Frame.GlideslopeDeg,
		&rw.Frame.MaxRangeNM,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("runway %s/%s not found", airportICAO, ident)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get runway: %w", err)
	}
	return &rw, nil
}

// UpsertAirport creates or renames an airport.
func (r *RunwayRepository) UpsertAirport(ctx context.Context, airport Airport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO airports (icao, name)
		VALUES ($1, $2)
		ON CONFLICT (icao) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`, airport.ICAO, airport.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert airport %s: %w", airport.ICAO, err)
	}
	return nil
}

// UpsertRunway creates or updates one runway. The frame is validated before
// it touches the catalog; invalid geometry never gets persisted.
func (r *RunwayRepository) UpsertRunway(ctx context.Context, airportICAO, ident string, frame geometry.RunwayFrame) error {
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("invalid runway %s/%s: %w", airportICAO, ident, err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runways (airport_icao, ident, latitude, longitude, elevation_ft,
		                     heading_deg, glideslope_deg, max_range_nm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (airport_icao, ident) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			elevation_ft = EXCLUDED.elevation_ft,
			heading_deg = EXCLUDED.heading_deg,
			glideslope_deg = EXCLUDED.glideslope_deg,
			max_range_nm = EXCLUDED.max_range_nm,
			updated_at = NOW()
	`, airportICAO, ident,
		frame.Latitude, frame.Longitude, frame.ElevationFt,
		frame.HeadingDeg, frame.GlideslopeDeg, frame.MaxRangeNM)
	if err != nil {
		return fmt.Errorf("failed to upsert runway %s/%s: %w", airportICAO, ident, err)
	}
	return nil
}

// DeleteRunway removes one runway from the catalog.
func (r *RunwayRepository) DeleteRunway(ctx context.Context, airportICAO, ident string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM runways WHERE airport_icao = $1 AND ident = $2`,
		airportICAO, ident)
	if err != nil {
		return fmt.Errorf("failed to delete runway: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("runway %s/%s not found", airportICAO, ident)
	}
	return nil
}

// LoadCatalog reads the full catalog into the configuration's airport map
// shape, so database-backed and file-backed catalogs are interchangeable to
// the display. Rows failing geometry validation are skipped; a corrupt row
// must not poison the whole catalog.
func (r *RunwayRepository) LoadCatalog(ctx context.Context) (map[string]config.AirportConfig, error) {
	airports, err := r.ListAirports(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]config.AirportConfig, len(airports))
	for _, a := range airports {
		runways, err := r.ListRunways(ctx, a.ICAO)
		if err != nil {
			return nil, err
		}

		frames := make(map[string]geometry.RunwayFrame, len(runways))
		for _, rw := range runways {
			if err := rw.Frame.Validate(); err != nil {
				continue
			}
			frames[rw.Ident] = rw.Frame
		}
		if len(frames) == 0 {
			continue
		}
		catalog[a.ICAO] = config.AirportConfig{
			Name:    a.Name,
			Runways: frames,
		}
	}
	return catalog, nil
}

// Catalog materializes the database rows as a RunwayCatalog snapshot.
func (r *RunwayRepository) Catalog(ctx context.Context) (config.RunwayCatalog, error) {
	airports, err := r.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return config.CatalogFromAirports(airports), nil
}
