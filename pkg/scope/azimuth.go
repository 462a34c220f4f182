package scope

import (
	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/track"
)

// AzimuthScope renders the plan view: range along X matching the elevation
// scope, cross-track offset along Y around a horizontal on-course line.
// Positive cross-track (right of centerline looking along the approach)
// renders below the centerline. The lateral scale is the fixed
// geometry.MaxCrossTrackM, independent of the selected runway.
type AzimuthScope struct {
	Bounds Rect
	Runway geometry.RunwayFrame
}

// NewAzimuthScope creates an azimuth scope over the given viewport.
func NewAzimuthScope(bounds Rect, runway geometry.RunwayFrame) AzimuthScope {
	return AzimuthScope{Bounds: bounds, Runway: runway}
}

func (s AzimuthScope) plot() Rect {
	return s.Bounds.Inset(marginX, marginY)
}

func (s AzimuthScope) xForRange(rangeNM float64) int {
	plot := s.plot()
	frac := rangeNM / s.Runway.MaxRangeNM
	return plot.X + round(frac*float64(plot.W-1))
}

func (s AzimuthScope) yForCross(crossM float64) int {
	plot := s.plot()
	// ±MaxCrossTrackM/2 reaches the plot's vertical extremes.
	half := float64(plot.H-1) / 2
	frac := crossM / (geometry.MaxCrossTrackM / 2)
	return plot.Y + round(half+frac*half)
}

// Project maps a track to its pixel position, with the same inclusive range
// gate as the elevation scope.
func (s AzimuthScope) Project(tr *track.Track) (Point, bool) {
	if tr == nil || tr.RangeNM > s.Runway.MaxRangeNM {
		return Point{}, false
	}
	return Point{X: s.xForRange(tr.RangeNM), Y: s.yForCross(tr.CrossTrackM)}, true
}

// Furniture returns the static plan-view content: the on-course centerline,
// the funnel guides spreading from the runway end toward maximum range, and
// the range ticks.
func (s AzimuthScope) Furniture() Frame {
	var f Frame
	plot := s.plot()
	centerY := s.yForCross(0)

	f.Lines = append(f.Lines, Line{
		From:  Point{X: plot.X, Y: centerY},
		To:    Point{X: plot.Right(), Y: centerY},
		Style: StyleCenterline,
	})

	// Azimuth tolerance funnel: apex at the runway end of the centerline,
	// opening to the scope corners at maximum range.
	apex := Point{X: plot.X, Y: centerY}
	f.Lines = append(f.Lines,
		Line{From: apex, To: Point{X: plot.Right(), Y: plot.Y}, Style: StyleFunnel},
		Line{From: apex, To: Point{X: plot.Right(), Y: plot.Bottom()}, Style: StyleFunnel},
	)

	rangeTicks(&f, plot, s.Runway.MaxRangeNM)

	f.Labels = append(f.Labels, Label{
		At:    Point{X: plot.X, Y: plot.Y - 1},
		Text:  "AZIMUTH",
		Style: StyleLabel,
	})
	return f
}

// Render produces the full frame for one cycle: furniture plus a single
// filled marker at the target's lateral position when visible.
func (s AzimuthScope) Render(tr *track.Track) Frame {
	f := s.Furniture()

	pos, visible := s.Project(tr)
	if !visible {
		return f
	}

	f.Circles = append(f.Circles, Circle{
		Center: pos,
		Radius: targetRadius,
		Filled: true,
		Style:  StyleTarget,
	})
	if tr.Callsign != "" {
		f.Labels = append(f.Labels, Label{
			At:    Point{X: pos.X + targetRadius + 2, Y: pos.Y},
			Text:  tr.Callsign,
			Style: StyleLabel,
		})
	}
	return f
}
