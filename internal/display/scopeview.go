package display

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/par-scope/pkg/scope"
)

// ScopeView is a custom tview primitive that rasterizes one scope's
// primitives onto the terminal with tcell. The renderer callback produces a
// fresh frame for the current viewport each draw.
type ScopeView struct {
	*tview.Box
	render func(bounds scope.Rect) scope.Frame
}

// NewScopeView creates a scope view backed by the given renderer.
func NewScopeView(title string, render func(bounds scope.Rect) scope.Frame) *ScopeView {
	sv := &ScopeView{
		Box:    tview.NewBox(),
		render: render,
	}
	sv.SetBorder(true).SetTitle(title)
	return sv
}

// styleFor maps primitive styles to terminal colors. The palette follows
// the classic green-phosphor PAR presentation.
func styleFor(s scope.Style) tcell.Style {
	switch s {
	case scope.StyleCenterline:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	case scope.StyleGlidepath:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case scope.StyleTickEven:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case scope.StyleTickOdd:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	case scope.StyleFunnel:
		return tcell.StyleDefault.Foreground(tcell.ColorOlive)
	case scope.StyleTarget:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case scope.StyleReference:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case scope.StyleLabel:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	default:
		return tcell.StyleDefault
	}
}

// charFor picks the rune used to rasterize a primitive style.
func charFor(s scope.Style) rune {
	switch s {
	case scope.StyleCenterline:
		return '─'
	case scope.StyleGlidepath:
		return '·'
	case scope.StyleTickEven, scope.StyleTickOdd:
		return '·'
	case scope.StyleFunnel:
		return '.'
	default:
		return '·'
	}
}

// Draw renders the scope frame into the inner rectangle.
func (sv *ScopeView) Draw(screen tcell.Screen) {
	sv.Box.DrawForSubclass(screen, sv)

	x, y, width, height := sv.GetInnerRect()
	if width < 4 || height < 4 {
		return
	}

	frame := sv.render(scope.Rect{X: x, Y: y, W: width, H: height})

	for _, l := range frame.Lines {
		drawLine(screen, l.From.X, l.From.Y, l.To.X, l.To.Y, charFor(l.Style), styleFor(l.Style))
	}
	for _, c := range frame.Circles {
		if c.Filled {
			fillCircle(screen, c.Center.X, c.Center.Y, c.Radius, '●', styleFor(c.Style))
		} else {
			drawCircle(screen, c.Center.X, c.Center.Y, c.Radius, '○', styleFor(c.Style))
		}
	}
	for _, lb := range frame.Labels {
		style := styleFor(lb.Style)
		for i, ch := range lb.Text {
			px := lb.At.X + i
			if px >= x && px < x+width && lb.At.Y >= y && lb.At.Y < y+height {
				screen.SetContent(px, lb.At.Y, ch, nil, style)
			}
		}
	}
}

// drawCircle draws a circle outline using Bresenham's circle algorithm.
func drawCircle(screen tcell.Screen, cx, cy, radius int, char rune, style tcell.Style) {
	if radius <= 0 {
		screen.SetContent(cx, cy, char, nil, style)
		return
	}

	x := 0
	y := radius
	d := 3 - 2*radius

	for x <= y {
		screen.SetContent(cx+x, cy+y, char, nil, style)
		screen.SetContent(cx-x, cy+y, char, nil, style)
		screen.SetContent(cx+x, cy-y, char, nil, style)
		screen.SetContent(cx-x, cy-y, char, nil, style)
		screen.SetContent(cx+y, cy+x, char, nil, style)
		screen.SetContent(cx-y, cy+x, char, nil, style)
		screen.SetContent(cx+y, cy-x, char, nil, style)
		screen.SetContent(cx-y, cy-x, char, nil, style)

		x++
		if d > 0 {
			y--
			d = d + 4*(x-y) + 10
		} else {
			d = d + 4*x + 6
		}
	}
}

// fillCircle draws a solid disc. Terminal cells are roughly twice as tall
// as wide, so the radius is halved vertically to keep the disc round.
func fillCircle(screen tcell.Screen, cx, cy, radius int, char rune, style tcell.Style) {
	if radius <= 0 {
		screen.SetContent(cx, cy, char, nil, style)
		return
	}

	vr := radius / 2
	if vr < 1 {
		vr = 1
	}
	for dy := -vr; dy <= vr; dy++ {
		// Horizontal span at this row from the ellipse equation.
		fy := float64(dy) / float64(vr)
		span := int(float64(radius) * math.Sqrt(1-fy*fy))
		for dx := -span; dx <= span; dx++ {
			screen.SetContent(cx+dx, cy+dy, char, nil, style)
		}
	}
}

// drawLine draws a line using Bresenham's line algorithm.
func drawLine(screen tcell.Screen, x0, y0, x1, y1 int, char rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		screen.SetContent(x0, y0, char, nil, style)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
