package pkg

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/stereo_mesher/internal/mesh"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/ply"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

func TestMain(m *testing.M) {
	tools.SetLoggerOutput(io.Discard)
	os.Exit(m.Run())
}

func testOptions(workers int) *mesher.Options {
	opts := mesher.DefaultOptions()
	opts.Workers = workers
	return opts
}

func uniformImage(w, h int, r, g, b uint8) *raster.Image {
	img := raster.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, r, g, b)
		}
	}
	return img
}

// Side by side screenshot whose eye views are shift pixels apart. Rows differ strongly
// so the split is never mistaken for over-under.
func texturedSideBySide(halfWidth, height, shift int) *raster.Image {
	img := raster.NewImage(2*halfWidth, height)
	pixel := func(x, y int) (uint8, uint8, uint8) {
		g := 128 + 100*math.Sin(float64(x)/5)
		return uint8(200 * y / height), uint8(g), uint8((x * 37) % 32)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < halfWidth; x++ {
			r, g, b := pixel(x+shift, y)
			img.Set(x, y, r, g, b)
			r, g, b = pixel(x, y)
			img.Set(halfWidth+x, y, r, g, b)
		}
	}
	return img
}

func TestPipeline_FourByTwoScenario(t *testing.T) {
	opts := testOptions(2)
	img := uniformImage(4, 2, 90, 120, 150)

	result, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Run(img)
	require.NoError(t, err)

	assert.Equal(t, mesher.SideBySide, result.Detection.Layout)
	assert.Equal(t, result.Detection.SideBySideScore, result.Detection.OverUnderScore)
	for _, v := range result.Disparity.Values {
		assert.Equal(t, int16(0), v)
	}
	for _, v := range result.Depth.Values {
		assert.Equal(t, uint8(255), v)
	}

	// the full 4x2 resolution rotated clockwise
	pc := result.Cloud
	require.Equal(t, 2, pc.Width)
	require.Equal(t, 4, pc.Height)
	require.Len(t, pc.Points, 8)
	for j := 0; j < pc.Height; j++ {
		for i := 0; i < pc.Width; i++ {
			p := pc.At(i, j)
			assert.Equal(t, float64(j), p.X)
			assert.Equal(t, float64(i), p.Y)
			assert.Equal(t, 255*opts.Intensity, p.Z)
			assert.Equal(t, [3]uint8{90, 120, 150}, [3]uint8{p.R, p.G, p.B})
		}
	}
	assert.Len(t, result.Mesh.Faces, 6)
}

func TestPipeline_EyeViewTopLeftLandsOnLastColumn(t *testing.T) {
	opts := testOptions(2)
	opts.Interpolation = mesher.NearestNeighbor
	img := uniformImage(8, 4, 20, 20, 20)
	img.Set(0, 0, 255, 0, 0)
	img.Set(4, 0, 255, 0, 0)

	result, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Run(img)
	require.NoError(t, err)

	pc := result.Cloud
	require.Equal(t, 4, pc.Width)
	require.Equal(t, 8, pc.Height)

	corner := pc.At(pc.Width-1, 0)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{corner.R, corner.G, corner.B})
	assert.Equal(t, 0.0, corner.X)
	assert.Equal(t, 3.0, corner.Y)

	// the top row of the screenshot becomes y = H-1
	for k, p := range pc.Points {
		if p.R == 255 && p.G == 0 {
			assert.Equal(t, 3.0, p.Y, "red vertex %d", k)
		}
	}
}

func TestPipeline_LatticeSizeLaw(t *testing.T) {
	tests := []struct {
		name  string
		mode  mesher.ResampleMode
		wantW int
		wantH int
	}{
		{"resize and rotate", mesher.ResizeThenRotate, 12, 24},
		{"resize only", mesher.ResizeOnly, 24, 12},
	}
	img := texturedSideBySide(12, 12, 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(4)
			opts.ResampleMode = tt.mode
			result, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Run(img)
			require.NoError(t, err)

			assert.Equal(t, tt.wantW, result.Cloud.Width)
			assert.Equal(t, tt.wantH, result.Cloud.Height)
			assert.Len(t, result.Mesh.Cloud.Points, tt.wantW*tt.wantH)
			assert.Len(t, result.Mesh.Faces, 2*(tt.wantW-1)*(tt.wantH-1))
			for _, f := range result.Mesh.Faces {
				for _, idx := range f {
					assert.True(t, idx >= 0 && idx < tt.wantW*tt.wantH)
				}
			}
		})
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	img := texturedSideBySide(24, 16, 3)
	run := func(workers int) *mesh.Mesh {
		opts := testOptions(workers)
		result, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Run(img)
		require.NoError(t, err)
		return result.Mesh
	}
	first := run(1)
	assert.Equal(t, first, run(1))
	assert.Equal(t, first, run(6))
}

func TestPipeline_DegenerateInput(t *testing.T) {
	opts := testOptions(1)
	for _, img := range []*raster.Image{raster.NewImage(1, 8), raster.NewImage(8, 1), raster.NewImage(0, 0)} {
		_, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Run(img)
		var geomErr *mesher.GeometryError
		require.True(t, errors.As(err, &geomErr), "got %v", err)
	}
}

type recordingExporter struct {
	calls int
}

func (e *recordingExporter) Export(filePath string, m *mesh.Mesh) error {
	e.calls++
	return nil
}

type recordingAlgorithmManager struct {
	algorithm_manager.AlgorithmManager
	exporter *recordingExporter
}

func (am *recordingAlgorithmManager) GetExporter() ply.Exporter {
	return am.exporter
}

func writePNG(t *testing.T, path string, img *raster.Image) {
	t.Helper()
	require.NoError(t, raster.SavePNG(path, img.ToRGBA()))
}

func TestMesherConvert_FailureSkipsExport(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(1)
	opts.Input = filepath.Join(dir, "thin.png")
	writePNG(t, opts.Input, uniformImage(1, 4, 0, 0, 0))

	exporter := &recordingExporter{}
	am := &recordingAlgorithmManager{AlgorithmManager: std_algorithm_manager.NewAlgorithmManager(opts), exporter: exporter}
	err := NewMesherConvert(tools.NewStandardFileFinder(), am).RunMesher(opts)

	var geomErr *mesher.GeometryError
	require.True(t, errors.As(err, &geomErr))
	assert.Equal(t, 0, exporter.calls)
}

func TestMesherConvert_MissingInput(t *testing.T) {
	opts := testOptions(1)
	opts.Input = filepath.Join(t.TempDir(), "nothing.png")

	exporter := &recordingExporter{}
	am := &recordingAlgorithmManager{AlgorithmManager: std_algorithm_manager.NewAlgorithmManager(opts), exporter: exporter}
	err := NewMesherConvert(tools.NewStandardFileFinder(), am).RunMesher(opts)

	var inputErr *mesher.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.True(t, inputErr.NotFound())
	assert.Equal(t, 0, exporter.calls)
}

func TestMesherConvert_WritesVerifiableMesh(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(3)
	opts.Input = filepath.Join(dir, "shot.png")
	opts.Output = filepath.Join(dir, "meshes", "shot.ply")
	writePNG(t, opts.Input, texturedSideBySide(8, 6, 1))

	am := std_algorithm_manager.NewAlgorithmManager(opts)
	require.NoError(t, NewMesherConvert(tools.NewStandardFileFinder(), am).RunMesher(opts))

	verifyOpts := testOptions(1)
	verifyOpts.Input = opts.Output
	verifyOpts.VerifyOptions = &mesher.VerifyOptions{ExpectedWidth: 6, ExpectedHeight: 16}
	require.NoError(t, NewMesherVerify().RunMesher(verifyOpts))

	verifyOpts.VerifyOptions.ExpectedWidth = 16
	assert.True(t, errors.Is(NewMesherVerify().RunMesher(verifyOpts), ErrVerify))
}

func TestMesherDepth_WritesDepthAndViews(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(2)
	opts.Input = filepath.Join(dir, "shot.png")
	opts.DepthExportOptions = &mesher.DepthExportOptions{SaveViews: true}
	writePNG(t, opts.Input, texturedSideBySide(10, 6, 2))

	am := std_algorithm_manager.NewAlgorithmManager(opts)
	require.NoError(t, NewMesherDepth(tools.NewStandardFileFinder(), am).RunMesher(opts))

	depthImg, err := raster.Load(filepath.Join(dir, "shot.png-depth.png"))
	require.NoError(t, err)
	assert.Equal(t, 20, depthImg.Width)
	assert.Equal(t, 6, depthImg.Height)

	for _, name := range []string{"shot.png-left.png", "shot.png-right.png"} {
		view, err := raster.Load(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, 10, view.Width)
		assert.Equal(t, 6, view.Height)
	}
}

func TestMesherDetect_OverUnder(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(1)
	opts.Input = filepath.Join(dir, "ou.png")

	// identical top and bottom halves, distinct left and right halves
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8((y % 4) * 50), B: 7, A: 255})
		}
	}
	require.NoError(t, raster.SavePNG(opts.Input, src))

	img, err := raster.Load(opts.Input)
	require.NoError(t, err)
	detection, err := NewPipeline(std_algorithm_manager.NewAlgorithmManager(opts), opts).Detect(img)
	require.NoError(t, err)
	assert.Equal(t, mesher.OverUnder, detection.Layout)

	require.NoError(t, NewMesherDetect(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunMesher(opts))
}

func TestVerifyLattice_Rejects(t *testing.T) {
	good := &ply.Document{
		Vertices: []ply.Vertex{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}},
		Faces:    []ply.Face{{0, 1, 2}, {1, 3, 2}},
	}
	w, h, err := VerifyLattice(good)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)

	tests := map[string]*ply.Document{
		"empty":        {},
		"swapped":      {Vertices: []ply.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, Faces: good.Faces},
		"missing face": {Vertices: good.Vertices, Faces: good.Faces[:1]},
		"out of range": {Vertices: good.Vertices, Faces: []ply.Face{{0, 1, 2}, {1, 4, 2}}},
		"short":        {Vertices: good.Vertices[:3], Faces: good.Faces},
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := VerifyLattice(doc)
			assert.True(t, errors.Is(err, ErrVerify), "got %v", err)
		})
	}
}
