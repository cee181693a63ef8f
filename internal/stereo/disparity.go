package stereo

import (
	"math"

	"github.com/ecopia-map/stereo_mesher/internal/raster"
)

// Disparities are fixed point values with 4 fractional bits
const DisparityScale = 16

// Marks pixels where no confident correspondence was found
const InvalidDisparity int16 = math.MinInt16

// Two eye views of equal size
type Pair struct {
	Left  *raster.Image
	Right *raster.Image
}

// Per pixel horizontal offset from the reference view to the matching pixel of the other view
type DisparityField struct {
	Width  int
	Height int
	Values []int16
}

func NewDisparityField(width, height int) *DisparityField {
	return &DisparityField{
		Width:  width,
		Height: height,
		Values: make([]int16, width*height),
	}
}

func (f *DisparityField) At(x, y int) int16 {
	return f.Values[y*f.Width+x]
}

func (f *DisparityField) Valid(x, y int) bool {
	return f.Values[y*f.Width+x] != InvalidDisparity
}

// Returns a left-right mirrored copy, values are kept as they are
func (f *DisparityField) FlipHorizontal() *DisparityField {
	out := NewDisparityField(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		row := f.Values[y*f.Width : (y+1)*f.Width]
		dst := out.Values[y*f.Width : (y+1)*f.Width]
		for x, v := range row {
			dst[f.Width-1-x] = v
		}
	}
	return out
}

// Number of pixels holding a disparity
func (f *DisparityField) ValidCount() int {
	n := 0
	for _, v := range f.Values {
		if v != InvalidDisparity {
			n++
		}
	}
	return n
}
