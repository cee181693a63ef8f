package stereo

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/workers"
)

// Denominators below this are pixels the smoother could not reach from any confident match
const minConfidence = 1e-6

// Edge aware weighted least squares disparity filter. Confidence comes from a left-right
// consistency check, smoothing is a fast global smoother (alternating 1D solves) guided by
// the colors of the left view.
type WLSFilter struct {
	options mesher.FilterOptions
	workers int
}

func NewWLSFilter(options mesher.FilterOptions, numWorkers int) *WLSFilter {
	return &WLSFilter{
		options: options,
		workers: numWorkers,
	}
}

// Combines the left-referenced and right-referenced fields into one filtered
// left-referenced field
func (f *WLSFilter) Filter(left *DisparityField, right *DisparityField, guide *raster.Image) (*DisparityField, error) {
	w, h := left.Width, left.Height
	if right.Width != w || right.Height != h || guide.Width != w || guide.Height != h {
		return nil, errors.Errorf("wls inputs differ in size: left %dx%d, right %dx%d, guide %dx%d",
			w, h, right.Width, right.Height, guide.Width, guide.Height)
	}

	num := make([]float64, w*h)
	den := make([]float64, w*h)
	consistent := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if f.isConsistent(left, right, x, y) {
				i := y*w + x
				num[i] = float64(left.Values[i])
				den[i] = 1
				consistent++
			}
		}
	}
	glog.V(2).Infof("left-right check kept %d of %d disparities", consistent, w*h)

	horizontal, vertical := guideWeights(guide, f.options.SigmaColor)

	lambda := f.options.Lambda
	for it := 0; it < f.options.Iterations; it++ {
		err := workers.Run("wls rows", h, f.workers, func(start, end int) error {
			s := newTridiagonalSolver(w)
			for y := start; y < end; y++ {
				s.solve(num[y*w:], den[y*w:], 1, horizontal[y*w:], 1, w, lambda)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		err = workers.Run("wls columns", w, f.workers, func(start, end int) error {
			s := newTridiagonalSolver(h)
			for x := start; x < end; x++ {
				s.solve(num[x:], den[x:], w, vertical[x:], w, h, lambda)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		lambda *= f.options.LambdaAttenuation
	}

	out := NewDisparityField(w, h)
	for i := range out.Values {
		if den[i] < minConfidence {
			out.Values[i] = InvalidDisparity
			continue
		}
		v := math.Round(num[i] / den[i])
		if v < math.MinInt16+1 {
			v = math.MinInt16 + 1
		} else if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		out.Values[i] = int16(v)
	}
	return out, nil
}

// A left disparity is kept when the right view maps its match back within LRCThreshold
func (f *WLSFilter) isConsistent(left, right *DisparityField, x, y int) bool {
	dl := left.At(x, y)
	if dl == InvalidDisparity {
		return false
	}
	xr := x - int(math.Round(float64(dl)/DisparityScale))
	if xr < 0 || xr >= left.Width {
		return false
	}
	dr := right.At(xr, y)
	if dr == InvalidDisparity {
		return false
	}
	diff := int(dl) - int(dr)
	if diff < 0 {
		diff = -diff
	}
	return diff <= f.options.LRCThreshold
}

// Affinities between each pixel and its right and lower neighbour,
// exp(-|color difference| / sigmaColor)
func guideWeights(guide *raster.Image, sigmaColor float64) ([]float64, []float64) {
	w, h := guide.Width, guide.Height
	lut := make([]float64, 3*255*255+1)
	for i := range lut {
		lut[i] = math.Exp(-math.Sqrt(float64(i)) / sigmaColor)
	}

	distance := func(a, b int) int {
		d := 0
		for c := 0; c < 3; c++ {
			v := int(guide.Pix[3*a+c]) - int(guide.Pix[3*b+c])
			d += v * v
		}
		return d
	}

	horizontal := make([]float64, w*h)
	vertical := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x < w-1 {
				horizontal[i] = lut[distance(i, i+1)]
			}
			if y < h-1 {
				vertical[i] = lut[distance(i, i+w)]
			}
		}
	}
	return horizontal, vertical
}

// Thomas algorithm for (I + lambda*L) u = f along one line, where L is the weighted graph
// laplacian of the line
type tridiagonalSolver struct {
	c  []float64
	f1 []float64
	f2 []float64
}

func newTridiagonalSolver(n int) *tridiagonalSolver {
	return &tridiagonalSolver{
		c:  make([]float64, n),
		f1: make([]float64, n),
		f2: make([]float64, n),
	}
}

// Solves in place for the two right hand sides a and b, read with the given stride.
// weights[i*weightStride] couples element i with element i+1.
func (s *tridiagonalSolver) solve(a, b []float64, stride int, weights []float64, weightStride int, n int, lambda float64) {
	if n == 1 {
		return
	}
	var lower float64
	for i := 0; i < n; i++ {
		upper := 0.0
		if i < n-1 {
			upper = -lambda * weights[i*weightStride]
		}
		diag := 1 - lower - upper
		fa, fb := a[i*stride], b[i*stride]
		if i > 0 {
			diag -= lower * s.c[i-1]
			fa -= lower * s.f1[i-1]
			fb -= lower * s.f2[i-1]
		}
		s.c[i] = upper / diag
		s.f1[i] = fa / diag
		s.f2[i] = fb / diag
		lower = upper
	}

	a[(n-1)*stride] = s.f1[n-1]
	b[(n-1)*stride] = s.f2[n-1]
	for i := n - 2; i >= 0; i-- {
		a[i*stride] = s.f1[i] - s.c[i]*a[(i+1)*stride]
		b[i*stride] = s.f2[i] - s.c[i]*b[(i+1)*stride]
	}
}
