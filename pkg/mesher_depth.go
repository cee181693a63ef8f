package pkg

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

type MesherDepth struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewMesherDepth(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) mesher.IMesher {
	return &MesherDepth{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Writes the depth map, resampled to the size of the input, as a grayscale PNG. The split
// eye views are written next to it on request.
func (md *MesherDepth) RunMesher(opts *mesher.Options) error {
	img, err := openInput(md.fileFinder, opts)
	if err != nil {
		return err
	}

	result, err := NewPipeline(md.algorithmManager, opts).Depth(img)
	if err != nil {
		return err
	}

	output := md.fileFinder.GetDepthOutputPath(opts)
	if err := tools.CreateParentDirectory(output); err != nil {
		return errors.Wrapf(err, "creating output folder for %s", output)
	}
	depthFull := raster.ResizeGray(result.Depth.ToGray(), img.Width, img.Height, opts.Interpolation)
	tools.LogOutput("Saving Depth Map", filepath.Base(output))
	if err := raster.SavePNG(output, depthFull.ToImage()); err != nil {
		return err
	}

	if opts.DepthExportOptions != nil && opts.DepthExportOptions.SaveViews {
		leftPath, rightPath := md.fileFinder.GetViewOutputPaths(opts)
		tools.LogOutput("Saving Eye Views", filepath.Base(leftPath), filepath.Base(rightPath))
		if err := raster.SavePNG(leftPath, result.Detection.Pair.Left.ToRGBA()); err != nil {
			return err
		}
		if err := raster.SavePNG(rightPath, result.Detection.Pair.Right.ToRGBA()); err != nil {
			return err
		}
	}
	return nil
}
