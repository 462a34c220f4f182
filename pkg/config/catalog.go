package config

import (
	"fmt"
	"sort"

	"github.com/unklstewy/par-scope/pkg/geometry"
)

// RunwayCatalog enumerates the configured approaches. Both the file-backed
// configuration and the database catalog serve through this interface, so
// the displays never care where a runway came from.
type RunwayCatalog interface {
	// Airports returns the known airport identifiers in sorted order.
	Airports() []string

	// Runways returns the runway idents for an airport in sorted order,
	// empty for an unknown airport.
	Runways(airportID string) []string

	// Frame returns the approach geometry for one runway.
	Frame(airportID, runwayID string) (geometry.RunwayFrame, error)
}

type mapCatalog struct {
	airports map[string]AirportConfig
}

// CatalogFromAirports wraps an airport map as a RunwayCatalog. The database
// layer uses this to serve its loaded rows through the same interface.
func CatalogFromAirports(airports map[string]AirportConfig) RunwayCatalog {
	return mapCatalog{airports: airports}
}

// Catalog returns the configuration's airports as a RunwayCatalog.
func (c *Config) Catalog() RunwayCatalog {
	return CatalogFromAirports(c.Airports)
}

func (m mapCatalog) Airports() []string {
	ids := make([]string, 0, len(m.airports))
	for id := range m.airports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m mapCatalog) Runways(airportID string) []string {
	airport, ok := m.airports[airportID]
	if !ok {
		return nil
	}
	idents := make([]string, 0, len(airport.Runways))
	for ident := range airport.Runways {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}

func (m mapCatalog) Frame(airportID, runwayID string) (geometry.RunwayFrame, error) {
	airport, ok := m.airports[airportID]
	if !ok {
		return geometry.RunwayFrame{}, fmt.Errorf("unknown airport %q", airportID)
	}
	frame, ok := airport.Runways[runwayID]
	if !ok {
		return geometry.RunwayFrame{}, fmt.Errorf("unknown runway %q at airport %q", runwayID, airportID)
	}
	return frame, nil
}
