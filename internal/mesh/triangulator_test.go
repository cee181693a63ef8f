package mesh

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/stereo_mesher/internal/cloud"
	"github.com/ecopia-map/stereo_mesher/internal/data"
	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

func lattice(w, h int) *cloud.PointCloud {
	pc := &cloud.PointCloud{Width: w, Height: h, Points: make([]data.Point, w*h)}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			pc.Points[pc.Index(i, j)] = data.NewPoint(float64(i), float64(j), 0, 0, 0, 0)
		}
	}
	return pc
}

func TestTriangulate_SizeLaw(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {4, 2}, {2, 4}, {7, 5}, {31, 17}} {
		w, h := dims[0], dims[1]
		m, err := Triangulate(lattice(w, h), 4)
		require.NoError(t, err)
		assert.Len(t, m.Faces, 2*(w-1)*(h-1), "%dx%d", w, h)
		assert.Len(t, m.Cloud.Points, w*h)
		for _, f := range m.Faces {
			for _, idx := range f {
				assert.True(t, idx >= 0 && idx < w*h)
			}
		}
	}
}

func TestTriangulate_TwoByThree(t *testing.T) {
	m, err := Triangulate(lattice(2, 3), 1)
	require.NoError(t, err)

	want := [][3]int{
		{0, 1, 2}, {1, 3, 2},
		{2, 3, 4}, {3, 5, 4},
	}
	if diff := cmp.Diff(want, m.Faces); diff != "" {
		t.Errorf("faces mismatch (-want +got):\n%s", diff)
	}
}

func TestTriangulate_ConsistentWinding(t *testing.T) {
	pc := lattice(6, 4)
	m, err := Triangulate(pc, 3)
	require.NoError(t, err)

	for _, f := range m.Faces {
		a, b, c := pc.Points[f[0]], pc.Points[f[1]], pc.Points[f[2]]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		assert.Greater(t, cross, 0.0)
	}
}

func TestTriangulate_SerialAndParallelAgree(t *testing.T) {
	serial, err := Triangulate(lattice(13, 9), 1)
	require.NoError(t, err)
	parallel, err := Triangulate(lattice(13, 9), 8)
	require.NoError(t, err)
	assert.Equal(t, serial.Faces, parallel.Faces)
}

func TestTriangulate_Degenerate(t *testing.T) {
	tests := []struct {
		w, h int
		dim  string
	}{
		{1, 5, "width"},
		{5, 1, "height"},
		{0, 0, "width"},
	}
	for _, tt := range tests {
		_, err := Triangulate(lattice(tt.w, tt.h), 1)
		var geomErr *mesher.GeometryError
		require.True(t, errors.As(err, &geomErr))
		assert.Equal(t, tt.dim, geomErr.Dimension)
	}
}

func TestFaceCount(t *testing.T) {
	assert.Equal(t, 6, FaceCount(4, 2))
	assert.Equal(t, 0, FaceCount(1, 9))
}
