package scope

import (
	"testing"

	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/track"
)

var testRunway = geometry.RunwayFrame{
	Latitude:      49.0128,
	Longitude:     2.55,
	ElevationFt:   400,
	HeadingDeg:    160,
	GlideslopeDeg: 3,
	MaxRangeNM:    10,
}

var testBounds = Rect{X: 0, Y: 0, W: 800, H: 301}

// TestElevationVisibilityGate checks the inclusive range boundary: a track
// just beyond maximum range produces furniture only, one exactly at maximum
// range is drawn.
func TestElevationVisibilityGate(t *testing.T) {
	s := NewElevationScope(testBounds, testRunway)

	t.Run("beyond max range", func(t *testing.T) {
		tr := &track.Track{RangeNM: 10.01, HeightFt: 2000}
		if _, visible := s.Project(tr); visible {
			t.Error("Expected track at 10.01 NM to be invisible with 10 NM scope")
		}
		f := s.Render(tr)
		if len(f.Circles) != 0 {
			t.Errorf("Expected no markers, got %d circles", len(f.Circles))
		}
		if len(f.Lines) == 0 {
			t.Error("Expected furniture lines even with no visible target")
		}
	})

	t.Run("exactly max range", func(t *testing.T) {
		tr := &track.Track{RangeNM: 10.0, HeightFt: 1500}
		if _, visible := s.Project(tr); !visible {
			t.Error("Expected track exactly at max range to be visible")
		}
		f := s.Render(tr)
		if len(f.Circles) != 2 {
			t.Errorf("Expected target + reference markers, got %d circles", len(f.Circles))
		}
	})

	t.Run("nil track", func(t *testing.T) {
		if _, visible := s.Project(nil); visible {
			t.Error("Expected nil track to be invisible")
		}
		f := s.Render(nil)
		if len(f.Circles) != 0 {
			t.Errorf("Expected furniture only for nil track, got %d circles", len(f.Circles))
		}
	})
}

// TestElevationAxisEndpoints verifies the range and altitude mappings hit
// the plot edges exactly.
func TestElevationAxisEndpoints(t *testing.T) {
	s := NewElevationScope(testBounds, testRunway)
	plot := s.plot()

	if got := s.xForRange(0); got != plot.X {
		t.Errorf("xForRange(0) = %d, want left edge %d", got, plot.X)
	}
	if got := s.xForRange(testRunway.MaxRangeNM); got != plot.Right() {
		t.Errorf("xForRange(max) = %d, want right edge %d", got, plot.Right())
	}
	if got := s.yForHeight(0); got != plot.Bottom() {
		t.Errorf("yForHeight(0) = %d, want bottom edge %d", got, plot.Bottom())
	}
	maxAlt := geometry.MaxDisplayAltitudeFt(testRunway.MaxRangeNM, testRunway.GlideslopeDeg)
	if got := s.yForHeight(maxAlt); got != plot.Y {
		t.Errorf("yForHeight(maxAlt) = %d, want top edge %d", got, plot.Y)
	}
}

// TestElevationOnGlidepathMarkers verifies that a track exactly on the
// glidepath puts the target marker at the center of the reference ring.
func TestElevationOnGlidepathMarkers(t *testing.T) {
	s := NewElevationScope(testBounds, testRunway)
	tr := &track.Track{
		RangeNM:  5.0,
		HeightFt: geometry.GlidepathHeightFt(5.0, testRunway.GlideslopeDeg),
	}

	f := s.Render(tr)
	if len(f.Circles) != 2 {
		t.Fatalf("Expected 2 circles, got %d", len(f.Circles))
	}

	var target, reference *Circle
	for i := range f.Circles {
		c := &f.Circles[i]
		if c.Filled {
			target = c
		} else {
			reference = c
		}
	}
	if target == nil || reference == nil {
		t.Fatal("Expected one filled target and one open reference marker")
	}
	if target.Center != reference.Center {
		t.Errorf("On-glidepath markers should coincide: target %+v, reference %+v",
			target.Center, reference.Center)
	}
	if target.Style != StyleTarget || reference.Style != StyleReference {
		t.Error("Marker styles mixed up")
	}
}

// TestElevationRangeTicks verifies the ten alternating range ticks.
func TestElevationRangeTicks(t *testing.T) {
	s := NewElevationScope(testBounds, testRunway)
	f := s.Furniture()

	var even, odd int
	for _, l := range f.Lines {
		switch l.Style {
		case StyleTickEven:
			even++
		case StyleTickOdd:
			odd++
		}
	}
	if even+odd != 10 {
		t.Errorf("Expected 10 range ticks, got %d", even+odd)
	}
	if even != 5 || odd != 5 {
		t.Errorf("Expected alternating tick styles 5/5, got %d/%d", even, odd)
	}
}

// TestAzimuthCrossTrackMapping verifies the lateral axis: on-course at the
// centerline, positive cross below it, full-scale offsets at the edges.
func TestAzimuthCrossTrackMapping(t *testing.T) {
	s := NewAzimuthScope(testBounds, testRunway)
	plot := s.plot()
	centerY := s.yForCross(0)

	onCourse, visible := s.Project(&track.Track{RangeNM: 5, CrossTrackM: 0})
	if !visible {
		t.Fatal("Expected on-course track to be visible")
	}
	if onCourse.Y != centerY {
		t.Errorf("On-course Y = %d, want centerline %d", onCourse.Y, centerY)
	}

	right, _ := s.Project(&track.Track{RangeNM: 5, CrossTrackM: 100})
	left, _ := s.Project(&track.Track{RangeNM: 5, CrossTrackM: -100})
	if right.Y <= centerY {
		t.Errorf("Positive cross-track should render below centerline: %d vs %d", right.Y, centerY)
	}
	if left.Y >= centerY {
		t.Errorf("Negative cross-track should render above centerline: %d vs %d", left.Y, centerY)
	}

	if got := s.yForCross(geometry.MaxCrossTrackM / 2); got != plot.Bottom() {
		t.Errorf("yForCross(+300) = %d, want bottom edge %d", got, plot.Bottom())
	}
	if got := s.yForCross(-geometry.MaxCrossTrackM / 2); got != plot.Y {
		t.Errorf("yForCross(-300) = %d, want top edge %d", got, plot.Y)
	}
}

// TestAzimuthFunnel verifies the funnel guides share an apex on the left
// edge centerline and open to the right-edge corners.
func TestAzimuthFunnel(t *testing.T) {
	s := NewAzimuthScope(testBounds, testRunway)
	plot := s.plot()
	f := s.Furniture()

	var funnels []Line
	for _, l := range f.Lines {
		if l.Style == StyleFunnel {
			funnels = append(funnels, l)
		}
	}
	if len(funnels) != 2 {
		t.Fatalf("Expected 2 funnel lines, got %d", len(funnels))
	}

	apex := Point{X: plot.X, Y: s.yForCross(0)}
	corners := map[Point]bool{
		{X: plot.Right(), Y: plot.Y}:        false,
		{X: plot.Right(), Y: plot.Bottom()}: false,
	}
	for _, l := range funnels {
		if l.From != apex {
			t.Errorf("Funnel line should start at apex %+v, got %+v", apex, l.From)
		}
		if _, ok := corners[l.To]; !ok {
			t.Errorf("Funnel line ends at %+v, want a right-edge corner", l.To)
		}
		corners[l.To] = true
	}
	for corner, hit := range corners {
		if !hit {
			t.Errorf("No funnel line reaches corner %+v", corner)
		}
	}
}

// TestAzimuthVisibilityGate mirrors the elevation gate on the plan view.
func TestAzimuthVisibilityGate(t *testing.T) {
	s := NewAzimuthScope(testBounds, testRunway)

	if f := s.Render(&track.Track{RangeNM: 10.01}); len(f.Circles) != 0 {
		t.Errorf("Expected no marker beyond max range, got %d circles", len(f.Circles))
	}
	if f := s.Render(&track.Track{RangeNM: 10.0}); len(f.Circles) != 1 {
		t.Errorf("Expected single target marker at max range, got %d circles", len(f.Circles))
	}
}

// TestScopesAtTerminalViewport checks that deviations stay readable on a
// real terminal-sized viewport: each scope gets 10 rows of an 80x24
// terminal, and vertical/lateral offsets must still land on distinct rows
// rather than collapsing onto a one-row plot.
func TestScopesAtTerminalViewport(t *testing.T) {
	terminalBounds := Rect{X: 0, Y: 0, W: 80, H: 10}

	t.Run("elevation separates heights", func(t *testing.T) {
		s := NewElevationScope(terminalBounds, testRunway)
		if plot := s.plot(); plot.H < 4 {
			t.Fatalf("Plot height %d leaves no room for vertical deviation", plot.H)
		}

		onPath := geometry.GlidepathHeightFt(5.0, testRunway.GlideslopeDeg)
		low := s.yForHeight(onPath)
		high := s.yForHeight(onPath + 1500)
		if low == high {
			t.Errorf("On-glidepath and 1500 ft high map to the same row %d", low)
		}
		if high >= low {
			t.Errorf("Higher track should render above: %d vs %d", high, low)
		}
	})

	t.Run("azimuth separates cross-track", func(t *testing.T) {
		s := NewAzimuthScope(terminalBounds, testRunway)
		plot := s.plot()

		right := s.yForCross(geometry.MaxCrossTrackM / 2)
		left := s.yForCross(-geometry.MaxCrossTrackM / 2)
		if right == left {
			t.Errorf("Full-scale deflections both map to row %d", right)
		}
		if right != plot.Bottom() || left != plot.Y {
			t.Errorf("Full-scale deflections should reach the plot edges: got %d/%d, want %d/%d",
				left, right, plot.Y, plot.Bottom())
		}
	})
}

// TestTargetCallsignLabels verifies the callsign is drawn beside the marker
// on both scopes when the target is visible.
func TestTargetCallsignLabels(t *testing.T) {
	tr := &track.Track{RangeNM: 5, CrossTrackM: 50, HeightFt: 1600, Callsign: "AFR001"}

	hasCallsign := func(f Frame) bool {
		for _, lb := range f.Labels {
			if lb.Text == "AFR001" {
				return true
			}
		}
		return false
	}

	elev := NewElevationScope(testBounds, testRunway)
	if !hasCallsign(elev.Render(tr)) {
		t.Error("Elevation scope missing callsign label beside the marker")
	}
	az := NewAzimuthScope(testBounds, testRunway)
	if !hasCallsign(az.Render(tr)) {
		t.Error("Azimuth scope missing callsign label beside the marker")
	}

	beyond := &track.Track{RangeNM: 10.5, Callsign: "AFR001"}
	if hasCallsign(elev.Render(beyond)) || hasCallsign(az.Render(beyond)) {
		t.Error("Invisible target must not leave a callsign label")
	}
}

// TestInsetDegenerate verifies tiny viewports collapse safely instead of
// producing negative rectangles.
func TestInsetDegenerate(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 5, H: 5}.Inset(marginX, marginY)
	if r.W < 1 || r.H < 1 {
		t.Errorf("Inset produced degenerate rect %+v", r)
	}
}
