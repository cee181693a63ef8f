package pkg

import (
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/cloud"
	"github.com/ecopia-map/stereo_mesher/internal/depth"
	"github.com/ecopia-map/stereo_mesher/internal/mesh"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/internal/stereo"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

// Everything a conversion run produced, stage by stage
type Result struct {
	RunID     string
	Detection *stereo.Detection
	Disparity *stereo.DisparityField
	Depth     *depth.Map
	Cloud     *cloud.PointCloud
	Mesh      *mesh.Mesh
}

// Strictly sequential conversion of one stereo screenshot into a mesh. Each stage fully
// materializes its output before the next one starts and any failure aborts the run.
type Pipeline struct {
	algorithmManager algorithm_manager.AlgorithmManager
	opts             *mesher.Options
}

func NewPipeline(algorithmManager algorithm_manager.AlgorithmManager, opts *mesher.Options) *Pipeline {
	return &Pipeline{
		algorithmManager: algorithmManager,
		opts:             opts.Copy(),
	}
}

func (p *Pipeline) Detect(img *raster.Image) (*stereo.Detection, error) {
	detection, err := p.algorithmManager.GetFormatDetector().Detect(img)
	if err != nil {
		return nil, errors.Wrap(err, "detecting stereo layout")
	}
	tools.LogOutput(detection.Layout.String() + " image detected")
	return detection, nil
}

// Runs detection, disparity estimation and depth normalization
func (p *Pipeline) Depth(img *raster.Image) (*Result, error) {
	result := &Result{RunID: uuid.New().String()}
	glog.Infof("run %s: %dx%d input", result.RunID, img.Width, img.Height)

	detection, err := p.Detect(img)
	if err != nil {
		return nil, err
	}
	result.Detection = detection

	tools.LogOutput("Generating Depth Map")
	field, err := p.algorithmManager.GetDisparityEstimator().Estimate(detection.Pair)
	if err != nil {
		return nil, errors.Wrap(err, "estimating disparity")
	}
	glog.V(1).Infof("run %s: %d of %d disparities valid", result.RunID, field.ValidCount(), len(field.Values))
	result.Disparity = field

	depthMap, err := depth.Build(field)
	if err != nil {
		return nil, errors.Wrap(err, "building depth map")
	}
	result.Depth = depthMap

	return result, nil
}

// Runs every stage up to the mesh. Nothing is written to disk.
func (p *Pipeline) Run(img *raster.Image) (*Result, error) {
	result, err := p.Depth(img)
	if err != nil {
		return nil, err
	}

	tools.LogOutput("Creating Colour Map")
	assembler := cloud.NewAssembler(
		p.algorithmManager.GetGridTransformAlgorithm(),
		p.algorithmManager.GetElevationCorrectionAlgorithm(),
		p.opts.Interpolation,
		p.opts.Workers,
	)
	pc, err := assembler.Assemble(result.Detection.Pair.Left, result.Depth, img.Width, img.Height)
	if err != nil {
		return nil, errors.Wrap(err, "assembling point cloud")
	}
	result.Cloud = pc

	tools.LogOutput("Generating Mesh")
	m, err := mesh.Triangulate(pc, p.opts.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "triangulating point cloud")
	}
	result.Mesh = m
	glog.Infof("run %s: %dx%d lattice, %d faces", result.RunID, pc.Width, pc.Height, len(m.Faces))

	return result, nil
}
