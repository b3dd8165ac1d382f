package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelford(t *testing.T) {
	welford := NewWelford()

	assert.Equal(t, 0.0, welford.Mean())
	assert.Equal(t, 0.0, welford.Variance())
	assert.Equal(t, 0.0, welford.SampleVariance())

	for i := 1; i < 100; i++ {
		welford.Update(float64(i))
	}

	assert.Equal(t, uint64(99), welford.Count())
	assert.Equal(t, 50.0, welford.Mean())
	assert.InDelta(t, 816.666667, welford.Variance(), 1e-4)
	assert.InDelta(t, 825.0, welford.SampleVariance(), 1e-4)
}
