// Package display is the terminal front end: two PAR scopes, runway
// selection, connection control, and the activity log, built on tview.
package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/par-scope/pkg/config"
	"github.com/unklstewy/par-scope/pkg/geometry"
	"github.com/unklstewy/par-scope/pkg/scope"
	"github.com/unklstewy/par-scope/pkg/simconn"
	"github.com/unklstewy/par-scope/pkg/track"
)

// trailLength is how many past track positions the display remembers. The
// trail lives entirely in the display; projection itself is stateless.
const trailLength = 24

// App is the PAR scope application.
type App struct {
	cfg        *config.Config
	configPath string
	catalog    config.RunwayCatalog
	source     simconn.Source

	// UI components
	tviewApp    *tview.Application
	elevView    *ScopeView
	azView      *ScopeView
	status      *tview.TextView
	airportDrop *tview.DropDown
	runwayDrop  *tview.DropDown
	logs        *LogManager
	screen      tcell.Screen

	// State guarded by mu. The runway frame is replaced atomically on
	// selection changes so a render cycle never sees a partial update.
	mu        sync.RWMutex
	frame     geometry.RunwayFrame
	current   *track.Track
	trail     []track.Track
	showTrail bool

	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewApp creates the application. The configuration must already be
// validated; the active runway is taken as the initial frame.
func NewApp(cfg *config.Config, configPath string, source simconn.Source) (*App, error) {
	frame, err := cfg.ActiveRunwayFrame()
	if err != nil {
		return nil, fmt.Errorf("active runway: %w", err)
	}

	a := &App{
		cfg:        cfg,
		configPath: configPath,
		catalog:    cfg.Catalog(),
		source:     source,
		frame:      frame,
		showTrail:  true,
		stopChan:   make(chan struct{}),
	}

	a.setupUI()
	return a, nil
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.tviewApp = tview.NewApplication()

	a.logs = NewLogManager(200)

	a.elevView = NewScopeView(" Elevation ", a.renderElevation)
	a.azView = NewScopeView(" Azimuth ", a.renderAzimuth)

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.status.SetBorder(true).SetTitle(" Status ")

	a.createDropdowns()

	controls := tview.NewTextView().SetDynamicColors(true)
	controls.SetBorder(true).SetTitle(" Controls ")
	controls.SetText(`[yellow]CONNECTION[-]
  [white]c[-]    Connect
[yellow]DISPLAY[-]
  [white]t[-]    Trail on/off
  [white]y[-]    Copy log
[yellow]FOCUS[-]
  [white]Tab[-]  Next control
[yellow]CONTROL[-]
  [white]q[-]    Quit`)

	scopes := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.elevView, 0, 1, true).
		AddItem(a.azView, 0, 1, false)

	sidebar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.status, 11, 0, false).
		AddItem(a.airportDrop, 3, 0, false).
		AddItem(a.runwayDrop, 3, 0, false).
		AddItem(controls, 0, 2, false).
		AddItem(a.logs.GetView(), 0, 3, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(scopes, 0, 7, true).
		AddItem(sidebar, 0, 3, false)

	a.tviewApp.SetRoot(root, true)
	a.tviewApp.SetInputCapture(a.handleKeyboard)
	a.tviewApp.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		a.screen = screen
		return false
	})

	a.logs.Info("PAR scope started: %s/%s", a.cfg.ActiveAirport, a.cfg.ActiveRunway)
	a.updateStatus()
}

// createDropdowns builds the airport and runway selectors from the catalog.
func (a *App) createDropdowns() {
	a.airportDrop = tview.NewDropDown().SetLabel(" Airport: ")
	a.airportDrop.SetBorder(true)
	a.runwayDrop = tview.NewDropDown().SetLabel(" Runway: ")
	a.runwayDrop.SetBorder(true)

	airports := a.catalog.Airports()
	a.airportDrop.SetOptions(airports, func(text string, index int) {
		if index < 0 {
			return
		}
		a.populateRunways(text)
	})

	for i, id := range airports {
		if id == a.cfg.ActiveAirport {
			a.airportDrop.SetCurrentOption(i)
			break
		}
	}
	a.populateRunways(a.cfg.ActiveAirport)
}

// populateRunways fills the runway dropdown for an airport and selects its
// first runway (or the active one, when it belongs to this airport).
func (a *App) populateRunways(airportID string) {
	idents := a.catalog.Runways(airportID)
	if len(idents) == 0 {
		a.logs.Error("No runways for airport %s", airportID)
		return
	}

	a.runwayDrop.SetOptions(idents, func(text string, index int) {
		if index < 0 {
			return
		}
		a.applySelection(airportID, text)
	})

	selected := 0
	if airportID == a.cfg.ActiveAirport {
		for i, ident := range idents {
			if ident == a.cfg.ActiveRunway {
				selected = i
				break
			}
		}
	}
	a.runwayDrop.SetCurrentOption(selected)
}

// applySelection switches the active runway. A rejected selection keeps the
// prior frame in effect; the new frame replaces the old one atomically
// between render cycles.
func (a *App) applySelection(airportID, runwayID string) {
	if airportID == a.cfg.ActiveAirport && runwayID == a.cfg.ActiveRunway {
		return
	}

	if err := a.cfg.SetActive(airportID, runwayID); err != nil {
		a.logs.Warn("Runway selection rejected: %v", err)
		return
	}

	frame, err := a.cfg.ActiveRunwayFrame()
	if err != nil {
		a.logs.Error("Active runway lookup failed: %v", err)
		return
	}

	a.mu.Lock()
	a.frame = frame
	a.trail = nil
	a.mu.Unlock()

	a.logs.Info("Active runway: %s/%s (hdg %.0f°, gs %.1f°, %g NM)",
		airportID, runwayID, frame.HeadingDeg, frame.GlideslopeDeg, frame.MaxRangeNM)
	a.updateStatus()
}

// renderElevation is the elevation scope's draw callback.
func (a *App) renderElevation(bounds scope.Rect) scope.Frame {
	a.mu.RLock()
	frame := a.frame
	current := a.current
	trail := a.trailCopy()
	a.mu.RUnlock()

	s := scope.NewElevationScope(bounds, frame)
	f := s.Render(current)
	for i := range trail {
		if p, ok := s.Project(&trail[i]); ok {
			f.Circles = append(f.Circles, scope.Circle{
				Center: p, Radius: 0, Filled: true, Style: scope.StyleGlidepath,
			})
		}
	}
	return f
}

// renderAzimuth is the azimuth scope's draw callback.
func (a *App) renderAzimuth(bounds scope.Rect) scope.Frame {
	a.mu.RLock()
	frame := a.frame
	current := a.current
	trail := a.trailCopy()
	a.mu.RUnlock()

	s := scope.NewAzimuthScope(bounds, frame)
	f := s.Render(current)
	for i := range trail {
		if p, ok := s.Project(&trail[i]); ok {
			f.Circles = append(f.Circles, scope.Circle{
				Center: p, Radius: 0, Filled: true, Style: scope.StyleGlidepath,
			})
		}
	}
	return f
}

// trailCopy returns the trail slice for rendering; caller holds mu.
func (a *App) trailCopy() []track.Track {
	if !a.showTrail || len(a.trail) == 0 {
		return nil
	}
	out := make([]track.Track, len(a.trail))
	copy(out, a.trail)
	return out
}

// updateStatus rebuilds the status panel.
func (a *App) updateStatus() {
	a.mu.RLock()
	current := a.current
	frame := a.frame
	a.mu.RUnlock()

	var text string
	if a.source.Connected() {
		text += "[green]● CONNECTED[-]\n"
	} else {
		text += "[red]○ DISCONNECTED[-]\n"
		if lastErr := a.source.LastError(); lastErr != "" {
			text += fmt.Sprintf("[red]%s[-]\n", tview.Escape(lastErr))
		}
	}

	text += fmt.Sprintf("[gray]Runway:[-] [white]%s/%s[-]\n",
		a.cfg.ActiveAirport, a.cfg.ActiveRunway)
	text += fmt.Sprintf("[gray]Hdg %03.0f°  GS %.1f°  Range %g NM[-]\n",
		frame.HeadingDeg, frame.GlideslopeDeg, frame.MaxRangeNM)

	if current != nil {
		ideal := geometry.GlidepathHeightFt(current.RangeNM, frame.GlideslopeDeg)
		dev := current.HeightFt - ideal
		text += fmt.Sprintf("\n[yellow]%s[-]\n", tview.Escape(current.Callsign))
		text += fmt.Sprintf("[gray]Rng:[-] [white]%.1f NM[-]  [gray]Hgt:[-] [white]%.0f ft[-]\n",
			current.RangeNM, current.HeightFt)
		text += fmt.Sprintf("[gray]GP dev:[-] [white]%+.0f ft[-]  [gray]Cross:[-] [white]%+.0f m[-]\n",
			dev, current.CrossTrackM)
		text += fmt.Sprintf("[gray]GS:[-] [white]%.0f kt[-]  [gray]VS:[-] [white]%+.0f fpm[-]\n",
			current.GroundSpeedKts, current.VerticalSpeedFpm)
	} else {
		text += "\n[gray]No target[-]\n"
	}

	a.status.SetText(text)
}

// handleKeyboard handles global keys; everything else falls through to the
// focused widget.
func (a *App) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyCtrlC || event.Rune() == 'q':
		a.Stop()
		return nil
	case event.Key() == tcell.KeyTab:
		a.cycleFocus()
		return nil
	case event.Rune() == 'c':
		go a.connect()
		return nil
	case event.Rune() == 't':
		a.mu.Lock()
		a.showTrail = !a.showTrail
		show := a.showTrail
		a.mu.Unlock()
		a.logs.Info("Trail: %v", show)
		return nil
	case event.Rune() == 'y':
		if a.screen != nil {
			n := a.logs.CopyToClipboard(a.screen)
			a.logs.Info("Copied %d log lines to clipboard", n)
		}
		return nil
	}
	return event
}

func (a *App) cycleFocus() {
	order := []tview.Primitive{a.elevView, a.airportDrop, a.runwayDrop}
	for i, p := range order {
		if p.HasFocus() {
			a.tviewApp.SetFocus(order[(i+1)%len(order)])
			return
		}
	}
	a.tviewApp.SetFocus(order[0])
}

// connect establishes the simulator connection with backoff. Runs off the
// UI goroutine; only an explicit user action triggers it.
func (a *App) connect() {
	a.logs.Info("Connecting to simulator...")
	a.tviewApp.QueueUpdateDraw(a.updateStatus)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := simconn.ConnectWithRetry(ctx, simconn.DefaultRetryConfig(), a.source); err != nil {
		a.logs.Error("Connect failed: %v", err)
	} else {
		a.logs.Info("Simulator connected")
	}
	a.tviewApp.QueueUpdateDraw(a.updateStatus)
}

// Run starts the render loop and the UI. It blocks until Stop.
func (a *App) Run() error {
	interval := time.Duration(float64(time.Second) / a.cfg.Display.FrameRateHz)
	a.ticker = time.NewTicker(interval)
	go a.renderLoop()

	return a.tviewApp.Run()
}

// renderLoop drives one poll/project cycle per frame tick. The source
// throttles real fetches internally; between fetches Poll returns its
// cached snapshot, so ticking faster than the poll rate is cheap.
func (a *App) renderLoop() {
	wasConnected := a.source.Connected()

	for {
		select {
		case <-a.ticker.C:
			targets := a.source.Poll()
			selected := track.Select(targets, a.cfg.TargetCallsign)

			a.mu.Lock()
			frame := a.frame
			var tr *track.Track
			if selected != nil {
				tr = track.Project(*selected, frame)
			}
			prev := a.current
			a.current = tr
			if tr != nil && (prev == nil || *prev != *tr) {
				a.trail = append(a.trail, *tr)
				if len(a.trail) > trailLength {
					a.trail = a.trail[len(a.trail)-trailLength:]
				}
			}
			a.mu.Unlock()

			if connected := a.source.Connected(); connected != wasConnected {
				if connected {
					a.logs.Info("Source connected")
				} else {
					a.logs.Warn("Source disconnected: %s", a.source.LastError())
				}
				wasConnected = connected
			}

			a.tviewApp.QueueUpdateDraw(a.updateStatus)

		case <-a.stopChan:
			return
		}
	}
}

// Stop shuts the application down.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		if a.ticker != nil {
			a.ticker.Stop()
		}
		close(a.stopChan)
		a.source.Close()
		a.tviewApp.Stop()
	})
}
