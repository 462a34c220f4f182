package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

func (l logLevel) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelWarn:
		return "WARN"
	case levelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// colorTag is the tview color used when rendering this level in the panel.
func (l logLevel) colorTag() string {
	switch l {
	case levelDebug:
		return "gray"
	case levelWarn:
		return "yellow"
	case levelError:
		return "red"
	default:
		return "white"
	}
}

type logEntry struct {
	at    time.Time
	level logLevel
	text  string
}

// LogManager is the scrolling event log in the sidebar. It keeps a bounded
// in-memory history so the whole log can be copied out of the terminal even
// after the panel has scrolled.
type LogManager struct {
	view *tview.TextView

	mu      sync.Mutex
	entries []logEntry
	cap     int
}

// NewLogManager creates the log panel, keeping at most capacity entries.
func NewLogManager(capacity int) *LogManager {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(capacity)
	view.SetBorder(true).SetTitle(" Log (y: copy) ")

	return &LogManager{
		view: view,
		cap:  capacity,
	}
}

// GetView returns the tview primitive for layout.
func (lm *LogManager) GetView() tview.Primitive {
	return lm.view
}

func (lm *LogManager) Debug(format string, args ...interface{}) {
	lm.append(levelDebug, format, args...)
}

func (lm *LogManager) Info(format string, args ...interface{}) {
	lm.append(levelInfo, format, args...)
}

func (lm *LogManager) Warn(format string, args ...interface{}) {
	lm.append(levelWarn, format, args...)
}

func (lm *LogManager) Error(format string, args ...interface{}) {
	lm.append(levelError, format, args...)
}

func (lm *LogManager) append(level logLevel, format string, args ...interface{}) {
	entry := logEntry{
		at:    time.Now(),
		level: level,
		text:  fmt.Sprintf(format, args...),
	}

	lm.mu.Lock()
	lm.entries = append(lm.entries, entry)
	if len(lm.entries) > lm.cap {
		lm.entries = lm.entries[len(lm.entries)-lm.cap:]
	}
	lm.mu.Unlock()

	// The view trims its own scrollback via SetMaxLines, so appending one
	// line is enough; no full redraw of the history.
	fmt.Fprintf(lm.view, "[gray]%s[-] [%s]%-5s[-] %s\n",
		entry.at.Format("15:04:05"), level.colorTag(), level, tview.Escape(entry.text))
	lm.view.ScrollToEnd()
}

// Snapshot returns the retained history as plain text, oldest first.
func (lm *LogManager) Snapshot() string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var b strings.Builder
	for _, e := range lm.entries {
		fmt.Fprintf(&b, "%s %-5s %s\n", e.at.Format("15:04:05"), e.level, e.text)
	}
	return b.String()
}

// CopyToClipboard pushes the log history to the terminal clipboard via
// OSC 52 and returns the number of entries copied. Terminals without
// clipboard support ignore the sequence silently.
func (lm *LogManager) CopyToClipboard(screen tcell.Screen) int {
	lm.mu.Lock()
	count := len(lm.entries)
	lm.mu.Unlock()

	screen.SetClipboard([]byte(lm.Snapshot()))
	return count
}

// Clear drops the history and empties the panel.
func (lm *LogManager) Clear() {
	lm.mu.Lock()
	lm.entries = nil
	lm.mu.Unlock()
	lm.view.Clear()
}
