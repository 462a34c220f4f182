// Package track derives per-frame approach tracks from raw simulator
// targets. A Track is a snapshot in runway-relative coordinates; it is
// recomputed every render frame from the selected target and the active
// runway, never accumulated.
package track

import (
	"strings"

	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/simconn"
)

// Track is one target's position expressed in the runway approach frame.
type Track struct {
	// Callsign is the target identifier with surrounding whitespace removed
	Callsign string

	// RangeNM is the along-track distance to the runway reference point in
	// nautical miles, clamped to >= 0
	RangeNM float64

	// CrossTrackM is the lateral offset from the extended centerline in
	// meters; positive is right of centerline looking along the approach
	// heading
	CrossTrackM float64

	// HeightFt is the height above the runway reference elevation in feet
	HeightFt float64

	// GroundSpeedKts is the ground speed in knots, carried for readout only
	GroundSpeedKts float64

	// VerticalSpeedFpm is the vertical speed in feet per minute, carried
	// for readout only
	VerticalSpeedFpm float64
}

// Project converts a raw target into a Track in the given runway frame. It
// returns nil when the target has no complete position; a partial position
// is never padded with defaults.
func Project(t simconn.Target, frame geometry.RunwayFrame) *Track {
	if !t.HasPosition() {
		return nil
	}

	alongM, crossM := frame.ToLocal(*t.Latitude, *t.Longitude)
	return &Track{
		Callsign:         strings.TrimSpace(t.Callsign),
		RangeNM:          frame.RangeNM(alongM),
		CrossTrackM:      crossM,
		HeightFt:         frame.HeightFt(*t.AltitudeFt),
		GroundSpeedKts:   t.GroundSpeedKts,
		VerticalSpeedFpm: t.VerticalSpeedFpm,
	}
}
