package cloud

import (
	"github.com/golang/glog"

	"github.com/ecopia-map/stereo_mesher/internal/converters"
	"github.com/ecopia-map/stereo_mesher/internal/data"
	"github.com/ecopia-map/stereo_mesher/internal/depth"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/workers"
)

// Lattice of colored points, emitted row major so lattice column i, row j is at j*Width+i.
// The point at (i, j) sits at x = j, y = i.
type PointCloud struct {
	Width  int
	Height int
	Points []data.Point
}

func (pc *PointCloud) Index(i, j int) int {
	return j*pc.Width + i
}

func (pc *PointCloud) At(i, j int) data.Point {
	return pc.Points[pc.Index(i, j)]
}

// Fuses the color view and the depth map into a point lattice of the full stereo image size
type Assembler struct {
	transform     converters.GridTransform
	corrector     converters.ElevationCorrector
	interpolation mesher.Interpolation
	workers       int
}

func NewAssembler(transform converters.GridTransform, corrector converters.ElevationCorrector,
	interpolation mesher.Interpolation, numWorkers int) *Assembler {
	return &Assembler{
		transform:     transform,
		corrector:     corrector,
		interpolation: interpolation,
		workers:       numWorkers,
	}
}

// Resamples color and depth up to fullWidth x fullHeight, reorients both through the grid
// transform and emits one point per output pixel.
func (a *Assembler) Assemble(color *raster.Image, depthMap *depth.Map, fullWidth, fullHeight int) (*PointCloud, error) {
	if err := mesher.CheckDimensions("point cloud", fullWidth, fullHeight, 1); err != nil {
		return nil, err
	}
	if err := mesher.CheckDimensions("point cloud color", color.Width, color.Height, 1); err != nil {
		return nil, err
	}
	if err := mesher.CheckDimensions("point cloud depth", depthMap.Width, depthMap.Height, 1); err != nil {
		return nil, err
	}

	colorOut := raster.Transform(raster.Resize(color, fullWidth, fullHeight, a.interpolation), a.transform)
	depthOut := raster.TransformGray(raster.ResizeGray(depthMap.ToGray(), fullWidth, fullHeight, a.interpolation), a.transform)

	w, h := colorOut.Width, colorOut.Height
	glog.V(2).Infof("assembling %dx%d lattice, rotation %d", w, h, a.transform.Degrees())

	pc := &PointCloud{
		Width:  w,
		Height: h,
		Points: make([]data.Point, w*h),
	}
	err := workers.Run("point cloud", h, a.workers, func(start, end int) error {
		for j := start; j < end; j++ {
			for i := 0; i < w; i++ {
				r, g, b := colorOut.At(i, j)
				// x runs down the rotated grid, y across it
				x, y := float64(j), float64(i)
				z := a.corrector.CorrectElevation(x, y, float64(depthOut.At(i, j)))
				pc.Points[pc.Index(i, j)] = data.NewPoint(x, y, z, r, g, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}
