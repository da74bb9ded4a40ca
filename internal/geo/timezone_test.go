package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongitudeResolver(t *testing.T) {
	r := NewLongitudeResolver()

	tests := []struct {
		name   string
		lng    float64
		offset int
	}{
		{"greenwich", 0, 0},
		{"istanbul", 28.98, 2},
		{"tokyo", 139.69, 9},
		{"new york", -74.01, -5},
		{"rounds up at band edge", 37.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := r.Location(41.0, tt.lng)
			require.NoError(t, err)

			_, offset := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).In(loc).Zone()
			assert.Equal(t, tt.offset*3600, offset)
		})
	}

	t.Run("rejects out-of-range longitude", func(t *testing.T) {
		_, err := r.Location(0, 181)
		assert.Error(t, err)
	})
}
