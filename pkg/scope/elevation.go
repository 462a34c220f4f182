package scope

import (
	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/track"
)

// ElevationScope renders the vertical-profile view: range along X growing
// left to right from the runway reference point, altitude along Y with the
// field elevation at the bottom and the glidepath height at maximum range
// plus headroom at the top.
type ElevationScope struct {
	Bounds Rect
	Runway geometry.RunwayFrame
}

// NewElevationScope creates an elevation scope over the given viewport.
func NewElevationScope(bounds Rect, runway geometry.RunwayFrame) ElevationScope {
	return ElevationScope{Bounds: bounds, Runway: runway}
}

// plot returns the drawing area inside the axis margins.
func (s ElevationScope) plot() Rect {
	return s.Bounds.Inset(marginX, marginY)
}

func (s ElevationScope) xForRange(rangeNM float64) int {
	plot := s.plot()
	frac := rangeNM / s.Runway.MaxRangeNM
	return plot.X + round(frac*float64(plot.W-1))
}

func (s ElevationScope) yForHeight(heightFt float64) int {
	plot := s.plot()
	maxAlt := geometry.MaxDisplayAltitudeFt(s.Runway.MaxRangeNM, s.Runway.GlideslopeDeg)
	frac := heightFt / maxAlt
	return plot.Bottom() - round(frac*float64(plot.H-1))
}

// Project maps a track to its pixel position. The second return is false
// when the target is beyond the scope range; a track exactly at maximum
// range is still visible.
func (s ElevationScope) Project(tr *track.Track) (Point, bool) {
	if tr == nil || tr.RangeNM > s.Runway.MaxRangeNM {
		return Point{}, false
	}
	return Point{X: s.xForRange(tr.RangeNM), Y: s.yForHeight(tr.HeightFt)}, true
}

// Furniture returns the static scope content: touchdown-level baseline,
// glidepath reference line, and the range ticks. Furniture never depends on
// the target.
func (s ElevationScope) Furniture() Frame {
	var f Frame
	plot := s.plot()

	// Touchdown-level baseline along the scope bottom.
	f.Lines = append(f.Lines, Line{
		From:  Point{X: plot.X, Y: plot.Bottom()},
		To:    Point{X: plot.Right(), Y: plot.Bottom()},
		Style: StyleCenterline,
	})

	// Ideal glidepath from the threshold crossing point up to max range.
	glideTopFt := geometry.GlidepathHeightFt(s.Runway.MaxRangeNM, s.Runway.GlideslopeDeg)
	f.Lines = append(f.Lines, Line{
		From:  Point{X: s.xForRange(0), Y: s.yForHeight(0)},
		To:    Point{X: s.xForRange(s.Runway.MaxRangeNM), Y: s.yForHeight(glideTopFt)},
		Style: StyleGlidepath,
	})

	rangeTicks(&f, plot, s.Runway.MaxRangeNM)

	f.Labels = append(f.Labels, Label{
		At:    Point{X: plot.X, Y: plot.Y - 1},
		Text:  "GLIDEPATH",
		Style: StyleLabel,
	})
	return f
}

// Render produces the full frame for one cycle: furniture always, plus the
// target marker pair when the track is visible. The filled circle is the
// target's actual height; the open ring sits on the ideal glidepath at the
// same range, so the gap between them reads as vertical deviation.
func (s ElevationScope) Render(tr *track.Track) Frame {
	f := s.Furniture()

	pos, visible := s.Project(tr)
	if !visible {
		return f
	}

	idealFt := geometry.GlidepathHeightFt(tr.RangeNM, s.Runway.GlideslopeDeg)
	f.Circles = append(f.Circles,
		Circle{
			Center: Point{X: pos.X, Y: s.yForHeight(idealFt)},
			Radius: referenceRadius,
			Filled: false,
			Style:  StyleReference,
		},
		Circle{
			Center: pos,
			Radius: targetRadius,
			Filled: true,
			Style:  StyleTarget,
		},
	)
	if tr.Callsign != "" {
		f.Labels = append(f.Labels, Label{
			At:    Point{X: pos.X + targetRadius + 2, Y: pos.Y},
			Text:  tr.Callsign,
			Style: StyleLabel,
		})
	}
	return f
}
