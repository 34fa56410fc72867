package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		area     int64
		rate     int64
		bestArea int64
		bestRate int64
		expected bool
	}{
		"larger area wins": {
			area: 1920 * 1080, rate: 0,
			bestArea: 640 * 480, bestRate: 9_000_000,
			expected: true,
		},
		"smaller area loses despite higher rate": {
			area: 640 * 480, rate: 9_000_000,
			bestArea: 1920 * 1080, bestRate: 0,
			expected: false,
		},
		"equal area higher rate wins": {
			area: 640 * 480, rate: 2_000_000,
			bestArea: 640 * 480, bestRate: 1_000_000,
			expected: true,
		},
		"equal area lower rate loses": {
			area: 640 * 480, rate: 1_000_000,
			bestArea: 640 * 480, bestRate: 2_000_000,
			expected: false,
		},
		"identical candidate keeps current best": {
			area: 640 * 480, rate: 1_000_000,
			bestArea: 640 * 480, bestRate: 1_000_000,
			expected: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, better(tc.area, tc.rate, tc.bestArea, tc.bestRate))
		})
	}
}
