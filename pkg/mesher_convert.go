package pkg

import (
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

type MesherConvert struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewMesherConvert(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) mesher.IMesher {
	return &MesherConvert{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Converts the input screenshot into a PLY mesh
func (mc *MesherConvert) RunMesher(opts *mesher.Options) error {
	img, err := openInput(mc.fileFinder, opts)
	if err != nil {
		return err
	}

	result, err := NewPipeline(mc.algorithmManager, opts).Run(img)
	if err != nil {
		return err
	}

	output := mc.fileFinder.GetMeshOutputPath(opts)
	tools.LogOutput("Saving Mesh", filepath.Base(output))
	if err := tools.CreateParentDirectory(output); err != nil {
		return errors.Wrapf(err, "creating output folder for %s", output)
	}
	if err := mc.algorithmManager.GetExporter().Export(output, result.Mesh); err != nil {
		return errors.Wrap(err, "exporting mesh")
	}

	glog.Infof("run %s: mesh written to %s", result.RunID, output)
	return nil
}

// Resolves and decodes the input screenshot
func openInput(fileFinder tools.FileFinder, opts *mesher.Options) (*raster.Image, error) {
	input, err := fileFinder.GetInputFile(opts)
	if err != nil {
		return nil, err
	}
	tools.LogOutput("Opening", filepath.Base(input))
	return raster.Load(input)
}
