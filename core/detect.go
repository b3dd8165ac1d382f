package core

import (
	"time"

	"kvtrack/document"
)

// Detect classifies a newly observed scalar against the last stored one.
// An absent previous value counts as a change: it is the first
// observation ever recorded for the token. Comparison is exact and
// case-sensitive.
//
// The returned record pairs the previous value with that value's own
// last-recorded timestamp, not the new observation's, and is only
// produced when a previous value actually existed. The caller appends it
// to the change-history window.
func Detect(previous *string, previousAt time.Time, next string) (bool, *document.IPChange) {
	if previous == nil {
		return true, nil
	}
	if *previous == next {
		return false, nil
	}
	return true, &document.IPChange{IP: *previous, Timestamp: previousAt}
}
