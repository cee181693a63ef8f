package stereo

import (
	"math"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/workers"
)

// Matching cost of every pixel against every candidate disparity, indexed
// ((y*width)+x)*ndisp + d. Index d corresponds to disparity minDisparity+d.
type costVolume struct {
	width  int
	height int
	ndisp  int
	cost   []uint16
}

func (v *costVolume) at(x, y int) []uint16 {
	i := (y*v.width + x) * v.ndisp
	return v.cost[i : i+v.ndisp]
}

// Per channel minimum and maximum of a pixel and the half way interpolations towards its
// horizontal neighbours
type halfSampleRange struct {
	mn []uint8
	mx []uint8
}

func minmax3(a, b, c uint8) (uint8, uint8) {
	mn, mx := a, a
	if b < mn {
		mn = b
	}
	if b > mx {
		mx = b
	}
	if c < mn {
		mn = c
	}
	if c > mx {
		mx = c
	}
	return mn, mx
}

func computeHalfSampleRange(img *raster.Image, y int) halfSampleRange {
	w := img.Width
	row := img.Pix[3*y*w : 3*(y+1)*w]
	r := halfSampleRange{
		mn: make([]uint8, len(row)),
		mx: make([]uint8, len(row)),
	}
	for x := 0; x < w; x++ {
		for c := 0; c < 3; c++ {
			vl := row[3*x+c]
			vlLeft, vlRight := vl, vl
			if x > 0 {
				vlLeft = uint8((int(vl) + int(row[3*(x-1)+c])) / 2)
			}
			if x < w-1 {
				vlRight = uint8((int(vl) + int(row[3*(x+1)+c])) / 2)
			}
			r.mn[3*x+c], r.mx[3*x+c] = minmax3(vlLeft, vl, vlRight)
		}
	}
	return r
}

// Distance of v to the interval [mn, mx], zero inside it
func intervalDistance(v, mn, mx uint8) int {
	if v < mn {
		return int(mn - v)
	}
	if v > mx {
		return int(v - mx)
	}
	return 0
}

// Builds the block aggregated Birchfield-Tomasi cost volume for left-referenced matching:
// left pixel x is compared with right pixel x-d. Candidates falling outside the right view
// get the maximal pixel cost.
func computeCostVolume(left, right *raster.Image, m mesher.MatcherOptions, numWorkers int) (*costVolume, error) {
	w, h, nd := left.Width, left.Height, m.NumDisparities
	capCost := m.PreFilterCap
	maxPixelCost := uint16(3 * capCost)

	// per pixel costs, summed horizontally over the block
	radius := m.BlockSize / 2
	hsum := make([]uint32, w*h*nd)

	err := workers.Run("matching cost", h, numWorkers, func(start, end int) error {
		raw := make([]uint16, w*nd)
		for y := start; y < end; y++ {
			leftRange := computeHalfSampleRange(left, y)
			rightRange := computeHalfSampleRange(right, y)
			lrow := left.Pix[3*y*w : 3*(y+1)*w]
			rrow := right.Pix[3*y*w : 3*(y+1)*w]

			for x := 0; x < w; x++ {
				for d := 0; d < nd; d++ {
					xr := x - (m.MinDisparity + d)
					if xr < 0 || xr >= w {
						raw[x*nd+d] = maxPixelCost
						continue
					}
					cost := 0
					for c := 0; c < 3; c++ {
						li, ri := 3*x+c, 3*xr+c
						diffLeft := intervalDistance(lrow[li], rightRange.mn[ri], rightRange.mx[ri])
						diffRight := intervalDistance(rrow[ri], leftRange.mn[li], leftRange.mx[li])
						diffC := capCost
						if diffLeft < diffC {
							diffC = diffLeft
						}
						if diffRight < diffC {
							diffC = diffRight
						}
						cost += diffC
					}
					raw[x*nd+d] = uint16(cost)
				}
			}

			out := hsum[y*w*nd : (y+1)*w*nd]
			for x := 0; x < w; x++ {
				acc := out[x*nd : (x+1)*nd]
				for k := -radius; k <= radius; k++ {
					src := raw[clampIndex(x+k, w)*nd:]
					for d := 0; d < nd; d++ {
						acc[d] += uint32(src[d])
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	volume := &costVolume{
		width:  w,
		height: h,
		ndisp:  nd,
		cost:   make([]uint16, w*h*nd),
	}

	// vertical part of the block sum, saturating into 16 bit
	err = workers.Run("cost aggregation", h, numWorkers, func(start, end int) error {
		acc := make([]uint32, w*nd)
		for y := start; y < end; y++ {
			for i := range acc {
				acc[i] = 0
			}
			for k := -radius; k <= radius; k++ {
				yy := clampIndex(y+k, h)
				src := hsum[yy*w*nd : (yy+1)*w*nd]
				for i, v := range src {
					acc[i] += v
				}
			}
			dst := volume.cost[y*w*nd : (y+1)*w*nd]
			for i, v := range acc {
				if v > math.MaxUint16 {
					v = math.MaxUint16
				}
				dst[i] = uint16(v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return volume, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
