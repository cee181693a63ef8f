package linear_elevation_corrector

import "github.com/ecopia-map/stereo_mesher/internal/converters"

// Scales depth samples by an intensity factor and shifts them by a constant offset
type LinearElevationCorrector struct {
	Intensity float64
	Offset    float64
}

func NewLinearElevationCorrector(intensity, offset float64) converters.ElevationCorrector {
	return &LinearElevationCorrector{
		Intensity: intensity,
		Offset:    offset,
	}
}

func (c *LinearElevationCorrector) CorrectElevation(x, y, depth float64) float64 {
	return depth*c.Intensity + c.Offset
}
