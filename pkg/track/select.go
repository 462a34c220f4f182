package track

import (
	"strings"

	"github.com/unklstewy/par-scope/pkg/simconn"
)

// Select picks the tracked target out of a poll snapshot. With a locked
// callsign it returns the first case-insensitive match on trimmed callsigns;
// with no lock, or no match, it falls back to the first target in receipt
// order. The source's ordering is kept as-is. An empty snapshot yields nil.
func Select(targets []simconn.Target, lockedCallsign string) *simconn.Target {
	if len(targets) == 0 {
		return nil
	}

	locked := strings.TrimSpace(lockedCallsign)
	if locked != "" {
		for i := range targets {
			if strings.EqualFold(strings.TrimSpace(targets[i].Callsign), locked) {
				return &targets[i]
			}
		}
	}

	return &targets[0]
}
