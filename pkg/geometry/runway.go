// Package geometry provides the runway-relative coordinate transforms used
// by the PAR scopes.
//
// All transforms work on a local tangent plane anchored at the runway
// reference point using an equirectangular approximation. This is accurate
// to well under a percent within the tens of nautical miles a PAR display
// covers; no geodesic correction is applied. That is a documented limitation
// of the approach geometry, not a bug.
package geometry

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusM is the mean Earth radius used by the tangent-plane
	// approximation, in meters.
	EarthRadiusM = 6371000.0

	// MetersPerNM converts meters to nautical miles.
	MetersPerNM = 1852.0

	// FeetPerNM converts nautical miles to feet.
	FeetPerNM = 6076.12

	degToRad = math.Pi / 180.0
)

// RunwayFrame holds the reference geometry for one runway threshold.
// A frame is an immutable snapshot: configuration changes replace the whole
// value atomically, never individual fields.
type RunwayFrame struct {
	// Latitude of the runway reference point in decimal degrees
	Latitude float64 `json:"lat"`

	// Longitude of the runway reference point in decimal degrees
	Longitude float64 `json:"lon"`

	// ElevationFt is the field elevation in feet MSL
	ElevationFt float64 `json:"elev_ft"`

	// HeadingDeg is the true runway heading in degrees, [0, 360)
	HeadingDeg float64 `json:"heading_deg"`

	// GlideslopeDeg is the glidepath angle in degrees (typically 3.0)
	GlideslopeDeg float64 `json:"glideslope_deg"`

	// MaxRangeNM is the display range of the scopes in nautical miles
	MaxRangeNM float64 `json:"max_range_nm"`
}

// Validate checks the frame invariants. A frame that fails validation must
// never be handed to the projector or the scopes; the caller keeps the prior
// valid frame active instead.
func (f RunwayFrame) Validate() error {
	if math.IsNaN(f.Latitude) || f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", f.Latitude)
	}
	if math.IsNaN(f.Longitude) || f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", f.Longitude)
	}
	if math.IsNaN(f.ElevationFt) {
		return fmt.Errorf("elevation is not a number")
	}
	if math.IsNaN(f.HeadingDeg) || f.HeadingDeg < 0 || f.HeadingDeg >= 360 {
		return fmt.Errorf("heading %v out of range [0, 360)", f.HeadingDeg)
	}
	if !(f.GlideslopeDeg > 0) {
		return fmt.Errorf("glideslope %v must be positive", f.GlideslopeDeg)
	}
	if !(f.MaxRangeNM > 0) {
		return fmt.Errorf("max range %v must be positive", f.MaxRangeNM)
	}
	return nil
}

// ToLocal converts a geodetic position to runway-relative offsets in meters.
//
// alongM is the distance down the final-approach centerline, positive on the
// approach side of the threshold (an aircraft flying the approach sees its
// alongM shrink toward zero). crossM is the lateral offset from the
// centerline: positive means right of course as seen by the approaching
// aircraft, looking along the approach heading.
func (f RunwayFrame) ToLocal(lat, lon float64) (alongM, crossM float64) {
	dlat := (lat - f.Latitude) * degToRad
	dlon := (lon - f.Longitude) * degToRad

	// East/north offsets on the tangent plane.
	x := dlon * math.Cos(f.Latitude*degToRad) * EarthRadiusM
	y := dlat * EarthRadiusM

	sinH := math.Sin(f.HeadingDeg * degToRad)
	cosH := math.Cos(f.HeadingDeg * degToRad)

	// Rotate into the runway frame. The approach course points along the
	// reciprocal of the runway heading, so the along axis is negated.
	alongM = -(x*sinH + y*cosH)
	crossM = x*cosH - y*sinH
	return alongM, crossM
}

// RangeNM converts an along-track offset to a display range in nautical
// miles. Targets behind the threshold clamp to zero rather than reading a
// negative range.
func (f RunwayFrame) RangeNM(alongM float64) float64 {
	return math.Max(0, alongM/MetersPerNM)
}

// HeightFt returns the height above field elevation for an MSL altitude.
func (f RunwayFrame) HeightFt(altFt float64) float64 {
	return altFt - f.ElevationFt
}
