package mesh

import (
	"github.com/ecopia-map/stereo_mesher/internal/cloud"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/workers"
)

// Height field surface over a point lattice. Faces are triples of lattice indices.
type Mesh struct {
	Cloud *cloud.PointCloud
	Faces [][3]int
}

// Returns the number of triangles a W x H lattice is covered with
func FaceCount(width, height int) int {
	if width < 2 || height < 2 {
		return 0
	}
	return 2 * (width - 1) * (height - 1)
}

// Connects every lattice cell with two triangles of the same winding. Faces are ordered row
// major by cell, the cell at column i, row j owns faces 2*(j*(W-1)+i) and the one after it.
func Triangulate(pc *cloud.PointCloud, numWorkers int) (*Mesh, error) {
	if err := mesher.CheckDimensions("mesh", pc.Width, pc.Height, 2); err != nil {
		return nil, err
	}

	w, h := pc.Width, pc.Height
	faces := make([][3]int, FaceCount(w, h))
	err := workers.Run("mesh", h-1, numWorkers, func(start, end int) error {
		for j := start; j < end; j++ {
			for i := 0; i < w-1; i++ {
				a := pc.Index(i, j)
				b := pc.Index(i+1, j)
				c := pc.Index(i, j+1)
				d := pc.Index(i+1, j+1)
				f := 2 * (j*(w-1) + i)
				faces[f] = [3]int{a, b, c}
				faces[f+1] = [3]int{b, d, c}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Mesh{Cloud: pc, Faces: faces}, nil
}
