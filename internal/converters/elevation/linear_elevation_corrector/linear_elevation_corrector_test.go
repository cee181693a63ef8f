package linear_elevation_corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearElevationCorrector_CorrectElevation(t *testing.T) {
	c := NewLinearElevationCorrector(5, 0)
	assert.Equal(t, 0.0, c.CorrectElevation(3, 4, 0))
	assert.Equal(t, 1275.0, c.CorrectElevation(0, 0, 255))

	shifted := NewLinearElevationCorrector(2, -10)
	assert.Equal(t, 10.0, shifted.CorrectElevation(1, 1, 10))
}
