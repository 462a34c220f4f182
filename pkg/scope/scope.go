// Package scope turns approach tracks into 2-D drawing primitives for the
// two PAR scopes. The output is device independent: lines, circles, and
// labels in viewport pixel coordinates, which the terminal front ends
// rasterize however they like. Layout constants here set proportions, not
// protocol.
package scope

import (
	"math"
	"strconv"
)

// Style identifies which visual class a primitive belongs to. The front end
// maps styles to colors; the renderer only distinguishes them.
type Style int

const (
	// StyleCenterline marks the on-course reference line
	StyleCenterline Style = iota

	// StyleGlidepath marks the ideal descent path reference line
	StyleGlidepath

	// StyleTickEven and StyleTickOdd alternate across the range ticks
	StyleTickEven
	StyleTickOdd

	// StyleFunnel marks the azimuth tolerance guide lines
	StyleFunnel

	// StyleTarget marks the live target position
	StyleTarget

	// StyleReference marks the ideal-position marker paired with a target
	StyleReference

	// StyleLabel marks axis and readout text
	StyleLabel
)

// Point is a pixel position in viewport coordinates, Y growing downward.
type Point struct {
	X, Y int
}

// Rect is a pixel rectangle in viewport coordinates.
type Rect struct {
	X, Y, W, H int
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W - 1 }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H - 1 }

// Inset returns the rectangle shrunk by dx horizontally and dy vertically on
// each side. A degenerate result collapses to a zero-size rectangle at the
// center rather than going negative.
func (r Rect) Inset(dx, dy int) Rect {
	out := Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
	if out.W < 1 {
		out.X = r.X + r.W/2
		out.W = 1
	}
	if out.H < 1 {
		out.Y = r.Y + r.H/2
		out.H = 1
	}
	return out
}

// Line is a straight segment between two points.
type Line struct {
	From, To Point
	Style    Style
}

// Circle is a marker; Filled distinguishes the live target from the ideal
// reference ring.
type Circle struct {
	Center Point
	Radius int
	Filled bool
	Style  Style
}

// Label is a short text annotation anchored at a point.
type Label struct {
	At    Point
	Text  string
	Style Style
}

// Frame is one scope's worth of primitives for a single render cycle.
type Frame struct {
	Lines   []Line
	Circles []Circle
	Labels  []Label
}

// Layout constants shared by both scopes, in terminal cells. The margins
// leave one row above the plot for the title and one below for the tick
// labels; a terminal viewport has a few dozen rows at best, so anything
// larger starves the plot itself.
const (
	marginX = 2
	marginY = 2

	rangeTickCount = 10

	targetRadius    = 1
	referenceRadius = 2
)

func round(v float64) int {
	return int(math.Round(v))
}

// rangeTicks appends the alternating vertical range ticks and their NM
// labels to a frame. Both scopes carry identical ticks.
func rangeTicks(f *Frame, plot Rect, maxRangeNM float64) {
	for i := 1; i <= rangeTickCount; i++ {
		frac := float64(i) / float64(rangeTickCount)
		x := plot.X + round(frac*float64(plot.W-1))
		style := StyleTickEven
		if i%2 == 1 {
			style = StyleTickOdd
		}
		f.Lines = append(f.Lines, Line{
			From:  Point{X: x, Y: plot.Y},
			To:    Point{X: x, Y: plot.Bottom()},
			Style: style,
		})
		f.Labels = append(f.Labels, Label{
			At:    Point{X: x, Y: plot.Bottom() + 1},
			Text:  trimFloat(frac * maxRangeNM),
			Style: StyleLabel,
		})
	}
}

// trimFloat formats a tick value without trailing zeros ("2", "2.5").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
