package geometry

import "math"

// MaxCrossTrackM is the full lateral width of the azimuth scope in meters.
// Half of it on either side of the centerline reaches the scope's vertical
// extremes. It is a fixed display scale, independent of the selected runway.
const MaxCrossTrackM = 600.0

// AltitudeHeadroom is the factor applied above the glidepath height at
// maximum range to set the top of the elevation scope.
const AltitudeHeadroom = 1.2

// GlidepathHeightFt returns the height in feet of the ideal glidepath at the
// given range. Zero range is the threshold crossing point, so the height is
// zero there by construction.
func GlidepathHeightFt(rangeNM, glideslopeDeg float64) float64 {
	return math.Tan(glideslopeDeg*degToRad) * rangeNM * FeetPerNM
}

// MaxDisplayAltitudeFt returns the altitude mapped to the top of the
// elevation scope: the glidepath height at maximum range plus headroom.
// Altitude zero maps to the scope bottom.
func MaxDisplayAltitudeFt(maxRangeNM, glideslopeDeg float64) float64 {
	return GlidepathHeightFt(maxRangeNM, glideslopeDeg) * AltitudeHeadroom
}
