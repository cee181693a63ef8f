package pkg

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

type MesherDetect struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewMesherDetect(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) mesher.IMesher {
	return &MesherDetect{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Reports the stereo layout of the input and the scores of both splits
func (md *MesherDetect) RunMesher(opts *mesher.Options) error {
	img, err := openInput(md.fileFinder, opts)
	if err != nil {
		return err
	}

	detection, err := NewPipeline(md.algorithmManager, opts).Detect(img)
	if err != nil {
		return err
	}

	tools.LogOutput(fmt.Sprintf("layout: %s, side-by-side score: %s, over-under score: %s",
		detection.Layout,
		decimal.NewFromFloat(detection.SideBySideScore).StringFixed(opts.TiePrecision),
		decimal.NewFromFloat(detection.OverUnderScore).StringFixed(opts.TiePrecision),
	))
	tools.LogOutput(fmt.Sprintf("eye views: %dx%d", detection.Pair.Left.Width, detection.Pair.Left.Height))
	return nil
}
