package stereo

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/workers"
)

type direction struct {
	dx int
	dy int
}

var (
	fourPaths  = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	eightPaths = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

// Semi-global block matcher producing left-referenced disparities
type SemiGlobalMatcher struct {
	options mesher.MatcherOptions
	workers int
}

func NewSemiGlobalMatcher(options mesher.MatcherOptions, numWorkers int) *SemiGlobalMatcher {
	return &SemiGlobalMatcher{
		options: options,
		workers: numWorkers,
	}
}

// Computes the disparity of every left pixel, searching the right view from x-MinDisparity
// leftwards. Both views must have the same size.
func (m *SemiGlobalMatcher) Match(left, right *raster.Image) (*DisparityField, error) {
	if left.Width != right.Width || left.Height != right.Height {
		return nil, errors.Errorf("eye views differ in size: %dx%d vs %dx%d", left.Width, left.Height, right.Width, right.Height)
	}
	if err := mesher.CheckDimensions("disparity estimation", left.Width, left.Height, 1); err != nil {
		return nil, err
	}

	volume, err := computeCostVolume(left, right, m.options, m.workers)
	if err != nil {
		return nil, err
	}

	p1, p2 := m.options.Penalties()
	paths := eightPaths
	if m.options.Paths == 4 {
		paths = fourPaths
	}

	sum := make([]uint32, len(volume.cost))
	for _, dir := range paths {
		if dir.dy == 0 {
			err = m.aggregateHorizontal(volume, sum, dir, uint32(p1), uint32(p2))
		} else {
			m.aggregateVertical(volume, sum, dir, uint32(p1), uint32(p2))
		}
		if err != nil {
			return nil, err
		}
	}
	glog.V(2).Infof("aggregated %d paths over %dx%dx%d cost volume (P1=%d P2=%d)", len(paths), volume.width, volume.height, volume.ndisp, p1, p2)

	return m.selectDisparities(volume, sum)
}

// Lr(p, d) = C(p, d) + min(Lr(p-r, d), Lr(p-r, d±1) + P1, min_k Lr(p-r, k) + P2) - min_k Lr(p-r, k)
func updatePath(cost []uint16, prev []uint32, prevMin uint32, cur []uint32, p1, p2 uint32) uint32 {
	nd := len(cost)
	curMin := ^uint32(0)
	for d := 0; d < nd; d++ {
		v := prev[d]
		if d > 0 && prev[d-1]+p1 < v {
			v = prev[d-1] + p1
		}
		if d < nd-1 && prev[d+1]+p1 < v {
			v = prev[d+1] + p1
		}
		if prevMin+p2 < v {
			v = prevMin + p2
		}
		cur[d] = uint32(cost[d]) + v - prevMin
		if cur[d] < curMin {
			curMin = cur[d]
		}
	}
	return curMin
}

func startPath(cost []uint16, cur []uint32) uint32 {
	curMin := ^uint32(0)
	for d, c := range cost {
		cur[d] = uint32(c)
		if cur[d] < curMin {
			curMin = cur[d]
		}
	}
	return curMin
}

// Rows are independent along horizontal paths
func (m *SemiGlobalMatcher) aggregateHorizontal(v *costVolume, sum []uint32, dir direction, p1, p2 uint32) error {
	return workers.Run("path aggregation", v.height, m.workers, func(start, end int) error {
		prev := make([]uint32, v.ndisp)
		cur := make([]uint32, v.ndisp)
		for y := start; y < end; y++ {
			x, stop := 0, v.width
			if dir.dx < 0 {
				x, stop = v.width-1, -1
			}
			prevMin := startPath(v.at(x, y), prev)
			addInto(sum, (y*v.width+x)*v.ndisp, prev)
			for x += dir.dx; x != stop; x += dir.dx {
				prevMin = updatePath(v.at(x, y), prev, prevMin, cur, p1, p2)
				addInto(sum, (y*v.width+x)*v.ndisp, cur)
				prev, cur = cur, prev
			}
		}
		return nil
	})
}

// Vertical and diagonal paths walk the rows in order, keeping the previous row of path costs
func (m *SemiGlobalMatcher) aggregateVertical(v *costVolume, sum []uint32, dir direction, p1, p2 uint32) {
	w, nd := v.width, v.ndisp
	prevRow := make([]uint32, w*nd)
	curRow := make([]uint32, w*nd)
	prevMins := make([]uint32, w)
	curMins := make([]uint32, w)

	y, stop := 0, v.height
	if dir.dy < 0 {
		y, stop = v.height-1, -1
	}
	for first := true; y != stop; y, first = y+dir.dy, false {
		for x := 0; x < w; x++ {
			cur := curRow[x*nd : (x+1)*nd]
			px := x - dir.dx
			if first || px < 0 || px >= w {
				curMins[x] = startPath(v.at(x, y), cur)
			} else {
				curMins[x] = updatePath(v.at(x, y), prevRow[px*nd:(px+1)*nd], prevMins[px], cur, p1, p2)
			}
			addInto(sum, (y*w+x)*nd, cur)
		}
		prevRow, curRow = curRow, prevRow
		prevMins, curMins = curMins, prevMins
	}
}

func addInto(sum []uint32, offset int, values []uint32) {
	dst := sum[offset : offset+len(values)]
	for i, v := range values {
		dst[i] += v
	}
}

// Winner takes all with parabolic sub-pixel refinement
func (m *SemiGlobalMatcher) selectDisparities(v *costVolume, sum []uint32) (*DisparityField, error) {
	field := NewDisparityField(v.width, v.height)
	nd := v.ndisp
	uniqueness := m.options.UniquenessRatio
	minD := m.options.MinDisparity

	err := workers.Run("disparity selection", v.height, m.workers, func(start, end int) error {
		for y := start; y < end; y++ {
			for x := 0; x < v.width; x++ {
				s := sum[(y*v.width+x)*nd : (y*v.width+x+1)*nd]
				best := 0
				for d := 1; d < nd; d++ {
					if s[d] < s[best] {
						best = d
					}
				}

				if uniqueness > 0 && !isUnique(s, best, uniqueness) {
					field.Values[y*v.width+x] = InvalidDisparity
					continue
				}

				disp := int64(minD+best) * DisparityScale
				if best > 0 && best < nd-1 {
					prev, cur, next := int64(s[best-1]), int64(s[best]), int64(s[best+1])
					denom := prev + next - 2*cur
					if denom < 1 {
						denom = 1
					}
					disp += ((prev-next)*DisparityScale + denom) / (denom * 2)
				}
				field.Values[y*v.width+x] = int16(disp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return field, nil
}

// The best cost must beat every candidate more than one step away by the given percentage
func isUnique(s []uint32, best int, ratio int) bool {
	minS := uint64(s[best])
	for d, c := range s {
		if d-best > 1 || best-d > 1 {
			if uint64(c)*uint64(100-ratio) <= minS*100 {
				return false
			}
		}
	}
	return true
}
