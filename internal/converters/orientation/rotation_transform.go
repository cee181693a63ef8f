package orientation

import "github.com/ecopia-map/stereo_mesher/internal/converters"

// Clockwise rotation by a multiple of 90 degrees, the grid is expanded so no pixel is cropped
type RotationTransform struct {
	degrees int
}

// Builds a rotation transform. Angles are reduced to [0, 360), callers validate they are
// multiples of 90.
func NewRotationTransform(degrees int) converters.GridTransform {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return &RotationTransform{degrees: degrees}
}

func (t *RotationTransform) Degrees() int {
	return t.degrees
}

func (t *RotationTransform) Size(width, height int) (int, int) {
	if t.degrees == 90 || t.degrees == 270 {
		return height, width
	}
	return width, height
}

func (t *RotationTransform) Source(x, y, width, height int) (int, int) {
	switch t.degrees {
	case 90:
		return y, height - 1 - x
	case 180:
		return width - 1 - x, height - 1 - y
	case 270:
		return width - 1 - y, x
	}
	return x, y
}
