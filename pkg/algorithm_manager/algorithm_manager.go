package algorithm_manager

import (
	"github.com/ecopia-map/stereo_mesher/internal/converters"
	"github.com/ecopia-map/stereo_mesher/internal/ply"
	"github.com/ecopia-map/stereo_mesher/internal/stereo"
)

type AlgorithmManager interface {
	GetFormatDetector() stereo.FormatDetector
	GetDisparityEstimator() stereo.DisparityEstimator
	GetElevationCorrectionAlgorithm() converters.ElevationCorrector
	GetGridTransformAlgorithm() converters.GridTransform
	GetExporter() ply.Exporter
}
