package pkg

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesh"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/ply"
	"github.com/ecopia-map/stereo_mesher/tools"
)

var ErrVerify = errors.New("mesh verification failed")

type MesherVerify struct{}

func NewMesherVerify() mesher.IMesher {
	return &MesherVerify{}
}

// Reads back a PLY mesh and checks it is a complete height field lattice
func (mv *MesherVerify) RunMesher(opts *mesher.Options) error {
	tools.LogOutput("Opening", filepath.Base(opts.Input))
	doc, err := ply.ReadPlyFile(opts.Input)
	if err != nil {
		return err
	}

	width, height, err := VerifyLattice(doc)
	if err != nil {
		return err
	}
	if v := opts.VerifyOptions; v != nil {
		if v.ExpectedWidth > 0 && v.ExpectedWidth != width {
			return errors.Wrapf(ErrVerify, "lattice width %d, expected %d", width, v.ExpectedWidth)
		}
		if v.ExpectedHeight > 0 && v.ExpectedHeight != height {
			return errors.Wrapf(ErrVerify, "lattice height %d, expected %d", height, v.ExpectedHeight)
		}
	}

	tools.LogOutput(fmt.Sprintf("Verify mesh success: %dx%d lattice, %d vertices, %d faces",
		width, height, len(doc.Vertices), len(doc.Faces)))
	return nil
}

// Checks the vertices form a row major lattice and the faces cover it, returns the lattice size
func VerifyLattice(doc *ply.Document) (int, int, error) {
	if len(doc.Vertices) == 0 {
		return 0, 0, errors.Wrap(ErrVerify, "no vertices")
	}

	maxX, maxY := float32(0), float32(0)
	for _, v := range doc.Vertices {
		maxX = float32(math.Max(float64(maxX), float64(v.X)))
		maxY = float32(math.Max(float64(maxY), float64(v.Y)))
	}
	// x runs down the lattice rows, y across the columns
	width, height := int(maxY)+1, int(maxX)+1
	if width*height != len(doc.Vertices) {
		return 0, 0, errors.Wrapf(ErrVerify, "%d vertices do not fill a %dx%d lattice", len(doc.Vertices), width, height)
	}

	for k, v := range doc.Vertices {
		if !tools.IsFloatEqual(float64(v.X), float64(k/width)) || !tools.IsFloatEqual(float64(v.Y), float64(k%width)) {
			return 0, 0, errors.Wrapf(ErrVerify, "vertex %d at (%v, %v) is off the lattice", k, v.X, v.Y)
		}
	}

	if want := mesh.FaceCount(width, height); len(doc.Faces) != want {
		return 0, 0, errors.Wrapf(ErrVerify, "%d faces, expected %d", len(doc.Faces), want)
	}
	for k, f := range doc.Faces {
		for _, idx := range f {
			if idx < 0 || int(idx) >= len(doc.Vertices) {
				return 0, 0, errors.Wrapf(ErrVerify, "face %d references vertex %d", k, idx)
			}
		}
	}

	glog.V(1).Infof("verified %dx%d lattice", width, height)
	return width, height, nil
}
