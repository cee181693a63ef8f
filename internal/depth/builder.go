package depth

import (
	"math"

	"github.com/golang/glog"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/stereo"
)

// Grid of 8 bit depth samples, 255 for the smallest disparity of the field and 0 for the largest
type Map struct {
	Width  int
	Height int
	Values []uint8
}

func (m *Map) At(x, y int) uint8 {
	return m.Values[y*m.Width+x]
}

func (m *Map) ToGray() *raster.Gray {
	g := raster.NewGray(m.Width, m.Height)
	copy(g.Pix, m.Values)
	return g
}

// Builds a depth map from a disparity field. Valid disparities are min-max scaled to
// [0, 255] over this field only, pixels without a match take the bottom of the range,
// and the result is inverted. A field without spread scales to 0 everywhere.
func Build(field *stereo.DisparityField) (*Map, error) {
	if err := mesher.CheckDimensions("depth map", field.Width, field.Height, 1); err != nil {
		return nil, err
	}

	mn, mx := math.MaxInt32, math.MinInt32
	for _, v := range field.Values {
		if v == stereo.InvalidDisparity {
			continue
		}
		if int(v) < mn {
			mn = int(v)
		}
		if int(v) > mx {
			mx = int(v)
		}
	}

	scale := 0.0
	if mx > mn {
		scale = 255 / float64(mx-mn)
	}
	glog.V(1).Infof("depth normalization over disparities [%d, %d], scale %g", mn, mx, scale)

	out := &Map{
		Width:  field.Width,
		Height: field.Height,
		Values: make([]uint8, len(field.Values)),
	}
	for i, v := range field.Values {
		normalized := 0.0
		if v != stereo.InvalidDisparity {
			normalized = math.RoundToEven(float64(int(v)-mn) * scale)
		}
		if normalized > 255 {
			normalized = 255
		}
		out.Values[i] = 255 - uint8(normalized)
	}
	return out, nil
}
