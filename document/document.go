// Package document provides typed views over the JSON documents the
// remote store holds. One token maps to one document; every write is a
// whole-document replace, so the types here carry the complete persisted
// state for a token.
package document

import (
	"encoding/json"
	"time"
)

// Reading is one timestamped sensor sample. Fields the device did not
// report stay nil and are omitted on the wire, never emitted as null:
// the stats aggregation keys off field presence.
type Reading struct {
	Timestamp   time.Time          `json:"timestamp"`
	Temperature *float64           `json:"temperature,omitempty"`
	Humidity    *float64           `json:"humidity,omitempty"`
	Pressure    *float64           `json:"pressure,omitempty"`
	Custom      map[string]float64 `json:"custom,omitempty"`
}

// Value returns the named field's value and whether the reading carries
// it. Names outside the three built-in fields are looked up in Custom.
func (reading *Reading) Value(field string) (float64, bool) {
	switch field {
	case "temperature":
		if reading.Temperature != nil {
			return *reading.Temperature, true
		}
	case "humidity":
		if reading.Humidity != nil {
			return *reading.Humidity, true
		}
	case "pressure":
		if reading.Pressure != nil {
			return *reading.Pressure, true
		}
	default:
		if value, ok := reading.Custom[field]; ok {
			return value, true
		}
	}
	return 0, false
}

// FieldStats summarizes one tracked field over the readings currently in
// the history window.
type FieldStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// SensorDocument is the persisted state of a reading-tracking token:
// the latest sample, a bounded history (oldest first) and the statistics
// derived from it on the write that produced this document.
type SensorDocument struct {
	Current     *Reading              `json:"current,omitempty"`
	History     []Reading             `json:"history,omitempty"`
	Stats       map[string]FieldStats `json:"stats,omitempty"`
	LastUpdated time.Time             `json:"last_updated"`
}

// IPChange records a value the tracked scalar moved away from, stamped
// with the time that value was last written, not the time of the change.
type IPChange struct {
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// IPDocument is the persisted state of a scalar-tracking token.
// PreviousIP is only present once a prior document existed.
type IPDocument struct {
	IP          string     `json:"ip"`
	LastUpdated time.Time  `json:"last_updated"`
	Changed     bool       `json:"changed"`
	PreviousIP  *string    `json:"previous_ip,omitempty"`
	History     []IPChange `json:"history"`
}

// ParseSensorDocument decodes a stored sensor document. Absent or
// malformed input yields the empty document rather than an error; a
// token's first update starts from nothing.
func ParseSensorDocument(raw []byte) *SensorDocument {
	doc := &SensorDocument{}
	if len(raw) == 0 {
		return doc
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return &SensorDocument{}
	}
	return doc
}

// ParseIPDocument decodes a stored IP document with the same bootstrap
// behavior as ParseSensorDocument.
func ParseIPDocument(raw []byte) *IPDocument {
	doc := &IPDocument{}
	if len(raw) == 0 {
		return doc
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return &IPDocument{}
	}
	return doc
}

func (doc *SensorDocument) Serialize() ([]byte, error) {
	return json.Marshal(doc)
}

func (doc *IPDocument) Serialize() ([]byte, error) {
	return json.Marshal(doc)
}
