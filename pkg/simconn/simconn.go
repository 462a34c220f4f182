// Package simconn provides data sources that deliver AI traffic samples from
// a running flight simulator.
//
// A source is polled synchronously from the render loop. Polling never
// blocks on the network beyond the configured HTTP timeout and never lets a
// failure escape as an error: a failed poll demotes the source to
// disconnected and keeps serving the last cached snapshot until an explicit
// reconnect. Stale data on a disconnected source is expected, not fatal.
package simconn

// Target represents one AI aircraft sample as delivered by the simulator.
// Position fields are pointers because the simulator reports them as unknown
// for targets that have despawned or not yet initialized; a missing field
// must never be substituted with a default.
type Target struct {
	// ID is the simulator's object identifier for this target
	ID int64 `json:"id"`

	// Latitude in decimal degrees, nil if unknown
	Latitude *float64 `json:"lat"`

	// Longitude in decimal degrees, nil if unknown
	Longitude *float64 `json:"lon"`

	// AltitudeFt is the altitude in feet MSL, nil if unknown
	AltitudeFt *float64 `json:"alt"`

	// HeadingDeg is the true heading in degrees
	HeadingDeg float64 `json:"hdg"`

	// PitchDeg is the pitch attitude in degrees
	PitchDeg float64 `json:"pitch"`

	// BankDeg is the bank attitude in degrees
	BankDeg float64 `json:"bank"`

	// GroundSpeedKts is the ground speed in knots
	GroundSpeedKts float64 `json:"gs"`

	// VerticalSpeedFpm is the vertical speed in feet per minute
	VerticalSpeedFpm float64 `json:"vs"`

	// Callsign is the ATC identifier, possibly padded with whitespace
	Callsign string `json:"callsign"`
}

// HasPosition reports whether the target carries a complete position.
// Targets without one are not projectable and must not be drawn.
func (t Target) HasPosition() bool {
	return t.Latitude != nil && t.Longitude != nil && t.AltitudeFt != nil
}

// Source is the interface all simulator data providers implement. The
// display polls a source once per render frame; implementations throttle
// internally and return the cached snapshot between real fetches.
type Source interface {
	// Connect establishes (or re-establishes) the simulator connection.
	// It is an explicit user action; Poll never reconnects on its own.
	Connect() error

	// Poll returns the current target snapshot. It must not block the
	// render loop waiting for fresh data and must not return an error:
	// failures flip the connection state and the cached snapshot is
	// returned instead.
	Poll() []Target

	// Connected reports the current connection state.
	Connected() bool

	// LastError returns the most recent failure message, or "" if none.
	LastError() string

	// Close shuts the source down.
	Close() error
}
