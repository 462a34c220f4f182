package display

import (
	"strings"
	"testing"
)

// TestLogManagerHistory verifies messages accumulate in order and trim at
// the cap.
func TestLogManagerHistory(t *testing.T) {
	lm := NewLogManager(3)

	lm.Info("first")
	lm.Warn("second")
	lm.Error("third")
	lm.Debug("fourth")

	snapshot := lm.Snapshot()
	if strings.Contains(snapshot, "first") {
		t.Error("Expected oldest message trimmed at cap")
	}
	for _, want := range []string{"second", "third", "fourth"} {
		if !strings.Contains(snapshot, want) {
			t.Errorf("Snapshot missing %q:\n%s", want, snapshot)
		}
	}

	if strings.Index(snapshot, "second") > strings.Index(snapshot, "fourth") {
		t.Error("Expected oldest-first ordering in snapshot")
	}
}

// TestLogManagerLevels verifies the level tags appear in the snapshot.
func TestLogManagerLevels(t *testing.T) {
	lm := NewLogManager(10)
	lm.Warn("poll rate degraded")

	snapshot := lm.Snapshot()
	if !strings.Contains(snapshot, "WARN") {
		t.Errorf("Expected WARN level in snapshot, got:\n%s", snapshot)
	}
}

// TestLogManagerClear verifies Clear empties the history.
func TestLogManagerClear(t *testing.T) {
	lm := NewLogManager(10)
	lm.Info("something")
	lm.Clear()
	if got := lm.Snapshot(); got != "" {
		t.Errorf("Expected empty snapshot after Clear, got %q", got)
	}
}
