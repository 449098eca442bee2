package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreciseGPAMonotonicNonIncreasing(t *testing.T) {
	previous := PreciseGPA(0)
	for p := 0.25; p <= 100; p += 0.25 {
		current := PreciseGPA(p)
		assert.LessOrEqual(t, current, previous, "gpa must not rise as percentage drops from %.2f", p)
		previous = current
	}
}

func TestPreciseGPABounds(t *testing.T) {
	assert.Equal(t, 1.0, PreciseGPA(100))
	assert.Equal(t, 1.0, PreciseGPA(97.5))
	assert.Equal(t, 5.0, PreciseGPA(0))
	assert.Equal(t, 5.0, PreciseGPA(49.99))
	assert.Equal(t, 5.0, PreciseGPA(50))
	assert.Equal(t, 4.5, PreciseGPA(59.5))
}

func TestPreciseGPAInterpolatesInsideBands(t *testing.T) {
	// Midpoint of the 94.5–97.5 band sits halfway between 1.0 and 1.25.
	assert.InDelta(t, 1.125, PreciseGPA(96.0), 1e-9)
	// 86% falls in the 85.5–88.5 band between 1.75 and 2.0.
	assert.InDelta(t, 1.9583, PreciseGPA(86.0), 0.001)
}

func TestPreciseGPANonFiniteInput(t *testing.T) {
	// Non-finite inputs resolve to the safe failing default.
	assert.Equal(t, 5.0, PreciseGPA(math.NaN()))
	assert.Equal(t, 5.0, PreciseGPA(math.Inf(1)))
	assert.Equal(t, 5.0, PreciseGPA(math.Inf(-1)))
}

func TestSteppedGPABands(t *testing.T) {
	assert.Equal(t, 1.0, SteppedGPA(98))
	assert.Equal(t, 2.0, SteppedGPA(86))
	assert.Equal(t, 3.0, SteppedGPA(75))
	assert.Equal(t, 4.0, SteppedGPA(65))
	assert.Equal(t, 5.0, SteppedGPA(40))
}
