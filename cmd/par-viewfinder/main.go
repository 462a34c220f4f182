// par-viewfinder is a lightweight single-screen PAR display for small
// terminals: both scopes stacked, a one-line readout, no mouse, no
// dropdowns. Runways cycle with the keyboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/par-scope/pkg/config"
	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/scope"
	"github.com/unklstewy/par-scope/pkg/simconn"
	"github.com/unklstewy/par-scope/pkg/track"
)

type model struct {
	cfg    *config.Config
	source simconn.Source

	// selections holds every airport/runway pair in cycle order
	selections []selection
	selIndex   int
	frame      geometry.RunwayFrame

	current *track.Track
	err     error

	width  int
	height int
}

type selection struct {
	airport string
	runway  string
}

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type connectResultMsg struct{ err error }

func connectCmd(source simconn.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return connectResultMsg{err: simconn.ConnectWithRetry(ctx, simconn.DefaultRetryConfig(), source)}
	}
}

// initialConnect is the single startup connection attempt. It never
// retries; reconnecting after a failure stays an explicit key press.
func initialConnect(source simconn.Source) tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{err: source.Connect()}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(initialConnect(m.source), tick(m.tickInterval()))
}

func (m model) tickInterval() time.Duration {
	return time.Duration(float64(time.Second) / m.cfg.Display.FrameRateHz)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.source.Close()
			return m, tea.Quit
		case "c":
			return m, connectCmd(m.source)
		case "r":
			m.cycleRunway(1)
		case "R":
			m.cycleRunway(-1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case connectResultMsg:
		m.err = msg.err

	case tickMsg:
		targets := m.source.Poll()
		selected := track.Select(targets, m.cfg.TargetCallsign)
		if selected != nil {
			m.current = track.Project(*selected, m.frame)
		} else {
			m.current = nil
		}
		return m, tick(m.tickInterval())
	}

	return m, nil
}

// cycleRunway steps through the catalog. The frame is swapped in one
// assignment so a render never sees a half-updated selection.
func (m *model) cycleRunway(step int) {
	if len(m.selections) == 0 {
		return
	}
	m.selIndex = (m.selIndex + step + len(m.selections)) % len(m.selections)
	sel := m.selections[m.selIndex]
	if err := m.cfg.SetActive(sel.airport, sel.runway); err != nil {
		m.err = err
		return
	}
	frame, err := m.cfg.ActiveRunwayFrame()
	if err != nil {
		m.err = err
		return
	}
	m.frame = frame
	m.err = nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func (m model) View() string {
	width := m.width
	if width < 60 {
		width = 60
	}
	height := m.height
	if height < 20 {
		height = 20
	}

	scopeHeight := (height - 4) / 2
	bounds := scope.Rect{X: 0, Y: 0, W: width, H: scopeHeight}

	elev := scope.NewElevationScope(bounds, m.frame)
	az := scope.NewAzimuthScope(bounds, m.frame)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderFrame(elev.Render(m.current), width, scopeHeight))
	b.WriteString(renderFrame(az.Render(m.current), width, scopeHeight))
	b.WriteString(dimStyle.Render("c: connect  r/R: cycle runway  q: quit"))
	return b.String()
}

func (m model) renderHeader() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("PAR %s/%s", m.cfg.ActiveAirport, m.cfg.ActiveRunway)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  gs %.1f°  %g NM  ", m.frame.GlideslopeDeg, m.frame.MaxRangeNM)))

	if m.source.Connected() {
		b.WriteString(okStyle.Render("CONNECTED"))
	} else {
		b.WriteString(warnStyle.Render("DISCONNECTED"))
	}

	if m.current != nil {
		ideal := geometry.GlidepathHeightFt(m.current.RangeNM, m.frame.GlideslopeDeg)
		b.WriteString(fmt.Sprintf("  %s  %.1f NM  %+.0f ft  %+.0f m",
			m.current.Callsign, m.current.RangeNM,
			m.current.HeightFt-ideal, m.current.CrossTrackM))
	} else {
		b.WriteString(dimStyle.Render("  no target"))
	}

	if m.err != nil {
		b.WriteString("  ")
		b.WriteString(errStyle.Render(m.err.Error()))
	}
	return b.String()
}

// buildSelections flattens the catalog into a deterministic cycle order.
func buildSelections(cfg *config.Config) ([]selection, int) {
	catalog := cfg.Catalog()

	var selections []selection
	active := 0
	for _, airportID := range catalog.Airports() {
		for _, ident := range catalog.Runways(airportID) {
			if airportID == cfg.ActiveAirport && ident == cfg.ActiveRunway {
				active = len(selections)
			}
			selections = append(selections, selection{airport: airportID, runway: ident})
		}
	}
	return selections, active
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	frame, err := cfg.ActiveRunwayFrame()
	if err != nil {
		log.Fatalf("Active runway: %v", err)
	}

	var source simconn.Source
	switch cfg.Source.Type {
	case "xplane":
		source = simconn.NewXPlaneClient(cfg.Source.XPlaneRESTURL, cfg.Source.XPlaneWSURL)
	default:
		source = simconn.NewGatewayClient(cfg.Source.GatewayURL, cfg.Source.PollHz)
	}

	selections, selIndex := buildSelections(cfg)

	m := model{
		cfg:        cfg,
		source:     source,
		selections: selections,
		selIndex:   selIndex,
		frame:      frame,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Display terminated: %v", err)
	}
}
