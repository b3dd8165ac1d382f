// Package core holds the pure document-mutation engine: given a stored
// document (or none) and one new observation, it produces the next
// document to persist. It performs no I/O, reads no clock, and is
// deterministic for identical inputs.
package core

const (
	// DefaultReadingCapacity bounds a sensor document's history window.
	DefaultReadingCapacity = 100
	// DefaultChangeCapacity bounds an IP document's change history.
	DefaultChangeCapacity = 9
)

// DefaultFields lists the sensor fields aggregated unless configured
// otherwise.
var DefaultFields = []string{"temperature", "humidity", "pressure"}

// SensorConfig fixes the window and aggregation policy for a
// reading-tracking token. Whether a token is reading-tracking or
// scalar-tracking is configuration, decided by which mutator the caller
// wires up.
type SensorConfig struct {
	HistoryCapacity int
	Fields          []string
}

func NewSensorConfig() SensorConfig {
	return SensorConfig{
		HistoryCapacity: DefaultReadingCapacity,
		Fields:          DefaultFields,
	}
}

// IPConfig fixes the change-history capacity for a scalar-tracking token.
type IPConfig struct {
	HistoryCapacity int
}

func NewIPConfig() IPConfig {
	return IPConfig{HistoryCapacity: DefaultChangeCapacity}
}
