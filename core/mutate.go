package core

import (
	"time"

	"kvtrack/document"
	"kvtrack/stats"
	"kvtrack/window"
)

// NextSensorDocument produces the document to persist after recording
// reading. prev may be nil or the empty document, the bootstrap case for
// a token's first write. Stats are recomputed over the post-eviction
// window and last_updated comes from the reading itself.
func NextSensorDocument(prev *document.SensorDocument, reading document.Reading, cfg SensorConfig) *document.SensorDocument {
	if prev == nil {
		prev = &document.SensorDocument{}
	}
	history := window.Append(prev.History, reading, cfg.HistoryCapacity)
	return &document.SensorDocument{
		Current:     &reading,
		History:     history,
		Stats:       stats.Aggregate(history, cfg.Fields),
		LastUpdated: reading.Timestamp,
	}
}

// NextIPDocument produces the document to persist after observing ip at
// observedAt. The change history only grows on an actual transition;
// when there is no stored document at all, no synthetic entry is seeded.
func NextIPDocument(prev *document.IPDocument, ip string, observedAt time.Time, cfg IPConfig) *document.IPDocument {
	if prev == nil {
		prev = &document.IPDocument{}
	}

	var previous *string
	if prev.IP != "" {
		value := prev.IP
		previous = &value
	}

	changed, record := Detect(previous, prev.LastUpdated, ip)

	var history []document.IPChange
	if record != nil {
		history = window.Append(prev.History, *record, cfg.HistoryCapacity)
	} else {
		history = append([]document.IPChange{}, prev.History...)
	}

	return &document.IPDocument{
		IP:          ip,
		LastUpdated: observedAt,
		Changed:     changed,
		PreviousIP:  previous,
		History:     history,
	}
}
