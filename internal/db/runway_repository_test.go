package db

import (
	"context"
	"strings"
	"testing"

	"github.com/unklstewy/par-scope/pkg/geometry"
)

// TestUpsertRunwayRejectsInvalidGeometry verifies validation happens before
// any SQL runs; the repository call fails without touching the database.
func TestUpsertRunwayRejectsInvalidGeometry(t *testing.T) {
	repo := NewRunwayRepository(nil)

	tests := []struct {
		name  string
		frame geometry.RunwayFrame
	}{
		{
			"zero glideslope",
			geometry.RunwayFrame{Latitude: 49, Longitude: 2.5, HeadingDeg: 160, GlideslopeDeg: 0, MaxRangeNM: 10},
		},
		{
			"negative range",
			geometry.RunwayFrame{Latitude: 49, Longitude: 2.5, HeadingDeg: 160, GlideslopeDeg: 3, MaxRangeNM: -1},
		},
		{
			"heading out of range",
			geometry.RunwayFrame{Latitude: 49, Longitude: 2.5, HeadingDeg: 360, GlideslopeDeg: 3, MaxRangeNM: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.UpsertRunway(context.Background(), "LFPG", "16", tt.frame)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid runway LFPG/16") {
				t.Errorf("Expected error naming the runway, got: %v", err)
			}
		})
	}
}
