package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/par-scope/pkg/scope"
)

// cell is one rasterized character with its style class.
type cell struct {
	ch    rune
	style scope.Style
	set   bool
}

// styleColors maps primitive styles to lipgloss colors, roughly matching a
// phosphor radar palette.
var styleColors = map[scope.Style]lipgloss.Style{
	scope.StyleCenterline: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	scope.StyleGlidepath:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	scope.StyleTickEven:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	scope.StyleTickOdd:    lipgloss.NewStyle().Foreground(lipgloss.Color("30")),
	scope.StyleFunnel:     lipgloss.NewStyle().Foreground(lipgloss.Color("100")),
	scope.StyleTarget:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	scope.StyleReference:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	scope.StyleLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
}

// renderFrame rasterizes a scope frame into a colored string block of the
// given character dimensions.
func renderFrame(f scope.Frame, width, height int) string {
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	set := func(x, y int, ch rune, style scope.Style) {
		if y < 0 || y >= height || x < 0 || x >= width {
			return
		}
		// Targets overwrite furniture, never the other way around.
		if grid[y][x].set && grid[y][x].style == scope.StyleTarget {
			return
		}
		grid[y][x] = cell{ch: ch, style: style, set: true}
	}

	for _, l := range f.Lines {
		gridLine(set, l)
	}
	for _, c := range f.Circles {
		gridCircle(set, c)
	}
	for _, lb := range f.Labels {
		for i, ch := range lb.Text {
			set(lb.At.X+i, lb.At.Y, ch, lb.Style)
		}
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := grid[y][x]
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			if style, ok := styleColors[c.style]; ok {
				b.WriteString(style.Render(string(c.ch)))
			} else {
				b.WriteRune(c.ch)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func lineChar(s scope.Style) rune {
	switch s {
	case scope.StyleCenterline:
		return '─'
	case scope.StyleFunnel:
		return '.'
	default:
		return '·'
	}
}

// gridLine draws a line using Bresenham's line algorithm.
func gridLine(set func(x, y int, ch rune, style scope.Style), l scope.Line) {
	x0, y0 := l.From.X, l.From.Y
	x1, y1 := l.To.X, l.To.Y
	ch := lineChar(l.Style)

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
		set(x0, y0, ch, l.Style)
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

// gridCircle rasterizes a marker. In a character grid a small marker works
// better as a single symbol than a drawn circle.
func gridCircle(set func(x, y int, ch rune, style scope.Style), c scope.Circle) {
	ch := '○'
	if c.Filled {
		ch = '●'
	}
	set(c.Center.X, c.Center.Y, ch, c.Style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
