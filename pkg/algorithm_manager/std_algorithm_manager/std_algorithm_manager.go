package std_algorithm_manager

import (
	"github.com/ecopia-map/stereo_mesher/internal/converters"
	"github.com/ecopia-map/stereo_mesher/internal/converters/elevation/linear_elevation_corrector"
	"github.com/ecopia-map/stereo_mesher/internal/converters/orientation"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/ply"
	"github.com/ecopia-map/stereo_mesher/internal/stereo"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options *mesher.Options
}

func NewAlgorithmManager(opts *mesher.Options) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options: opts,
	}
}

func (am *StandardAlgorithmManager) GetFormatDetector() stereo.FormatDetector {
	return stereo.NewFormatDetector(am.options.TieBreak, am.options.TiePrecision)
}

func (am *StandardAlgorithmManager) GetDisparityEstimator() stereo.DisparityEstimator {
	return stereo.NewSGMEstimator(am.options.Matcher, am.options.Filter, am.options.Workers)
}

func (am *StandardAlgorithmManager) GetElevationCorrectionAlgorithm() converters.ElevationCorrector {
	return linear_elevation_corrector.NewLinearElevationCorrector(am.options.Intensity, am.options.ZOffset)
}

// Rotation of the resampled grids, identity when the lattice keeps the screenshot orientation
func (am *StandardAlgorithmManager) GetGridTransformAlgorithm() converters.GridTransform {
	if am.options.ResampleMode == mesher.ResizeOnly {
		return orientation.NewRotationTransform(0)
	}
	return orientation.NewRotationTransform(am.options.RotationDegrees)
}

func (am *StandardAlgorithmManager) GetExporter() ply.Exporter {
	return ply.NewStandardExporter()
}
