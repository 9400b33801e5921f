package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		expected Band
	}{
		{name: "same_location: zero distance", meters: 0, expected: BandSameLocation},
		{name: "same_location: at exact threshold", meters: 50, expected: BandSameLocation},
		{name: "nearby: just past exact threshold", meters: 50.1, expected: BandNearby},
		{name: "nearby: at nearby threshold", meters: 545, expected: BandNearby},
		{name: "in_range: past nearby threshold", meters: 546, expected: BandInRange},
		{name: "in_range: at max distance", meters: 5000, expected: BandInRange},
		{name: "out_of_range: barely past max", meters: 5000.1, expected: BandOutOfRange},
		{name: "out_of_range: infinite", meters: math.Inf(1), expected: BandOutOfRange},
		{name: "out_of_range: NaN", meters: math.NaN(), expected: BandOutOfRange},
		{name: "out_of_range: negative", meters: -1, expected: BandOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.meters, 50, 5000))
		})
	}
}
