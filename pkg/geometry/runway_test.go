package geometry

import (
	"math"
	"testing"
)

// testFrame is the reference runway used throughout the geometry tests:
// a 160° runway with a 3° glidepath and a 10 NM scope range.
var testFrame = RunwayFrame{
	Latitude:      49.0128,
	Longitude:     2.55,
	ElevationFt:   400,
	HeadingDeg:    160,
	GlideslopeDeg: 3,
	MaxRangeNM:    10,
}

// positionAt inverts ToLocal: it places a target at the given along/cross
// offsets (meters) from the frame's reference point, using the same
// tangent-plane approximation so round trips are exact to floating point.
func positionAt(f RunwayFrame, alongM, crossM float64) (lat, lon float64) {
	sinH := math.Sin(f.HeadingDeg * degToRad)
	cosH := math.Cos(f.HeadingDeg * degToRad)

	x := -sinH*alongM + cosH*crossM
	y := -cosH*alongM - sinH*crossM

	lat = f.Latitude + (y/EarthRadiusM)/degToRad
	lon = f.Longitude + (x/(EarthRadiusM*math.Cos(f.Latitude*degToRad)))/degToRad
	return lat, lon
}

// TestToLocalOnFinal places a target 5 NM out on the approach centerline and
// verifies the runway-relative figures.
func TestToLocalOnFinal(t *testing.T) {
	lat, lon := positionAt(testFrame, 5*MetersPerNM, 0)

	alongM, crossM := testFrame.ToLocal(lat, lon)
	rangeNM := testFrame.RangeNM(alongM)

	if math.Abs(rangeNM-5.0) > 1e-6 {
		t.Errorf("range = %.9f NM, want 5.0", rangeNM)
	}
	if math.Abs(crossM) > 1e-6 {
		t.Errorf("cross = %.9f m, want 0", crossM)
	}
}

// TestToLocalCrossSign verifies the documented sign convention: positive
// cross-track is right of the centerline as seen by the approaching
// aircraft, looking along the approach heading.
func TestToLocalCrossSign(t *testing.T) {
	tests := []struct {
		name   string
		crossM float64
	}{
		{"right of course", 150.0},
		{"left of course", -150.0},
		{"on course", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := positionAt(testFrame, 3*MetersPerNM, tt.crossM)
			_, crossM := testFrame.ToLocal(lat, lon)
			if math.Abs(crossM-tt.crossM) > 1e-6 {
				t.Errorf("cross = %.6f m, want %.1f", crossM, tt.crossM)
			}
		})
	}
}

// TestRangeClamp verifies targets abeam or behind the threshold read zero
// range, never negative.
func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name   string
		alongM float64
		want   float64
	}{
		{"abeam threshold", 0, 0},
		{"behind runway", -2 * MetersPerNM, 0},
		{"just behind", -1.0, 0},
		{"one mile out", MetersPerNM, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testFrame.RangeNM(tt.alongM)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RangeNM(%.1f) = %.9f, want %.1f", tt.alongM, got, tt.want)
			}
			if got < 0 {
				t.Errorf("RangeNM(%.1f) = %.9f, negative range must not happen", tt.alongM, got)
			}
		})
	}
}

func TestHeightFt(t *testing.T) {
	if got := testFrame.HeightFt(1400); got != 1000 {
		t.Errorf("HeightFt(1400) = %v, want 1000", got)
	}
	if got := testFrame.HeightFt(250); got != -150 {
		t.Errorf("HeightFt(250) = %v, want -150", got)
	}
}

// TestValidate exercises the frame invariants.
func TestValidate(t *testing.T) {
	valid := testFrame
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid frame rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RunwayFrame)
	}{
		{"zero glideslope", func(f *RunwayFrame) { f.GlideslopeDeg = 0 }},
		{"negative glideslope", func(f *RunwayFrame) { f.GlideslopeDeg = -3 }},
		{"zero max range", func(f *RunwayFrame) { f.MaxRangeNM = 0 }},
		{"negative max range", func(f *RunwayFrame) { f.MaxRangeNM = -10 }},
		{"heading 360", func(f *RunwayFrame) { f.HeadingDeg = 360 }},
		{"negative heading", func(f *RunwayFrame) { f.HeadingDeg = -1 }},
		{"latitude out of range", func(f *RunwayFrame) { f.Latitude = 91 }},
		{"longitude out of range", func(f *RunwayFrame) { f.Longitude = -181 }},
		{"NaN glideslope", func(f *RunwayFrame) { f.GlideslopeDeg = math.NaN() }},
		{"NaN elevation", func(f *RunwayFrame) { f.ElevationFt = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			if err := f.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
