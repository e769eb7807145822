package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileType7(t *testing.T) {
	data := sortedCopy([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	t.Run("median of ten", func(t *testing.T) {
		assert.InDelta(t, 5.5, percentile(data, 50), 1e-9)
	})

	t.Run("minimum at p0", func(t *testing.T) {
		assert.InDelta(t, 1, percentile(data, 0), 1e-9)
	})

	t.Run("maximum at p100", func(t *testing.T) {
		assert.InDelta(t, 10, percentile(data, 100), 1e-9)
	})

	t.Run("interpolates between samples", func(t *testing.T) {
		assert.InDelta(t, 1.27, percentile(data, 3), 1e-9)
	})

	t.Run("empty series returns zero", func(t *testing.T) {
		assert.Equal(t, float64(0), percentile(nil, 50))
	})

	t.Run("single value series", func(t *testing.T) {
		assert.Equal(t, float64(42), percentile([]float64{42}, 90))
	})
}

func TestF64NanAs0(t *testing.T) {
	assert.Equal(t, float64(0), f64NanAs0(0.0/zero()))
	assert.Equal(t, 3.5, f64NanAs0(3.5))
}

func zero() float64 { return 0 }
