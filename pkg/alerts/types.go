package alerts

import "time"

// AlertType identifies the condition a hysteresis instance tracks.
type AlertType string

const (
	// TypeHealthLow fires when the health index stays below the
	// configured threshold.
	TypeHealthLow AlertType = "health_low"
)

// Key uniquely identifies one hysteresis instance.
type Key struct {
	SensorPath string
	Type       AlertType
}

// state holds the hysteresis counters for one key. At most one of the
// consecutive counters is non-zero: each reading resets the other.
// active is true only while an alert notification has been sent and no
// recovery has succeeded yet. A zero lastNotified means no
// notification has been recorded.
type state struct {
	consecutiveLow  uint
	consecutiveHigh uint
	active          bool
	lastNotified    time.Time
}
