// Package stats derives the aggregate statistics stored alongside a
// document's history window, plus the running accumulators the monitor
// loops use for their end-of-run summaries.
package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"kvtrack/document"
)

// Round2 matches the two-decimal precision stored documents use for
// derived values.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Aggregate recomputes per-field statistics over the full history
// window. Everything is recomputed from scratch on each write because
// eviction can drop old readings; nothing is streamed. A field carried
// by no reading in the window gets no entry at all.
func Aggregate(history []document.Reading, fields []string) map[string]document.FieldStats {
	result := make(map[string]document.FieldStats)
	for _, field := range fields {
		values := make([]float64, 0, len(history))
		for i := range history {
			if value, ok := history[i].Value(field); ok {
				values = append(values, value)
			}
		}
		if len(values) == 0 {
			continue
		}

		// The only failure mode of these is an empty input, excluded above.
		minValue, _ := mstats.Min(values)
		maxValue, _ := mstats.Max(values)
		avgValue, _ := mstats.Mean(values)

		result[field] = document.FieldStats{
			Min:   Round2(minValue),
			Max:   Round2(maxValue),
			Avg:   Round2(avgValue),
			Count: len(values),
		}
	}
	return result
}
