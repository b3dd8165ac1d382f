package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kvtrack/document"
)

func fptr(value float64) *float64 {
	return &value
}

func reading(at time.Time, temperature, humidity *float64) document.Reading {
	return document.Reading{
		Timestamp:   at,
		Temperature: temperature,
		Humidity:    humidity,
	}
}

func TestAggregate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []document.Reading{
		reading(base, fptr(20.0), fptr(40.0)),
		reading(base.Add(time.Minute), fptr(22.0), nil),
		reading(base.Add(2*time.Minute), fptr(21.0), fptr(50.0)),
	}

	result := Aggregate(history, []string{"temperature", "humidity", "pressure"})

	assert.Equal(t, document.FieldStats{Min: 20, Max: 22, Avg: 21, Count: 3},
		result["temperature"])
	assert.Equal(t, document.FieldStats{Min: 40, Max: 50, Avg: 45, Count: 2},
		result["humidity"])
}

func TestAggregate_OmitsFieldNoReadingCarries(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []document.Reading{
		reading(base, fptr(20.0), nil),
		reading(base.Add(time.Minute), fptr(22.0), nil),
	}

	result := Aggregate(history, []string{"temperature", "pressure"})

	assert.Contains(t, result, "temperature")
	assert.NotContains(t, result, "pressure")
}

func TestAggregate_EmptyWindow(t *testing.T) {
	result := Aggregate(nil, []string{"temperature"})

	assert.Empty(t, result)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []document.Reading{
		reading(base, fptr(18.5), fptr(35.0)),
		reading(base.Add(time.Minute), fptr(25.25), nil),
		reading(base.Add(2*time.Minute), fptr(19.0), fptr(61.0)),
		reading(base.Add(3*time.Minute), fptr(23.0), fptr(44.0)),
	}
	reversed := make([]document.Reading, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		reversed = append(reversed, history[i])
	}

	fields := []string{"temperature", "humidity"}
	assert.Equal(t, Aggregate(history, fields), Aggregate(reversed, fields))
}

func TestAggregate_CustomFields(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []document.Reading{
		{Timestamp: base, Custom: map[string]float64{"co2": 410.0}},
		{Timestamp: base.Add(time.Minute), Custom: map[string]float64{"co2": 420.0}},
	}

	result := Aggregate(history, []string{"co2"})

	assert.Equal(t, document.FieldStats{Min: 410, Max: 420, Avg: 415, Count: 2},
		result["co2"])
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 21.67, Round2(21.666666))
	assert.Equal(t, 50.5, Round2(50.5))
	assert.Equal(t, -3.33, Round2(-3.3333))
}
