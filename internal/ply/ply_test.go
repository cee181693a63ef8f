package ply

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/stereo_mesher/internal/cloud"
	"github.com/ecopia-map/stereo_mesher/internal/data"
	"github.com/ecopia-map/stereo_mesher/internal/mesh"
)

func TestWrite_Document(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Vertex{
		{X: 0, Y: 0, Z: 1275, R: 1, G: 2, B: 3},
		{X: 1, Y: 0, Z: 0.5, R: 255, G: 0, B: 0},
		{X: 0, Y: 1, Z: 0, R: 0, G: 0, B: 0},
	}, []Face{{0, 1, 2}})
	require.NoError(t, err)

	want := strings.Join([]string{
		"ply",
		"format ascii 1.0",
		"element vertex 3",
		"property float x",
		"property float y",
		"property float z",
		"property uchar red",
		"property uchar green",
		"property uchar blue",
		"element face 1",
		"property list uchar int vertex_indices",
		"end_header",
		"0 0 1275 1 2 3",
		"1 0 0.5 255 0 0",
		"0 1 0 0 0 0",
		"3 0 1 2",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_MalformedDocuments(t *testing.T) {
	tests := map[string]string{
		"no magic":       "plx\n",
		"binary":         "ply\nformat binary_little_endian 1.0\nend_header\n",
		"no faces":       "ply\nformat ascii 1.0\nelement vertex 0\nend_header\n",
		"short vertices": "ply\nformat ascii 1.0\nelement vertex 2\nelement face 0\nend_header\n0 0 0 0 0 0\n",
		"quad face":      "ply\nformat ascii 1.0\nelement vertex 0\nelement face 1\nend_header\n4 0 1 2 3\n",
		"bad color":      "ply\nformat ascii 1.0\nelement vertex 1\nelement face 0\nend_header\n0 0 0 256 0 0\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}

func TestStandardExporter_Export(t *testing.T) {
	pc := &cloud.PointCloud{Width: 2, Height: 2, Points: []data.Point{
		data.NewPoint(0, 0, 5, 10, 20, 30),
		data.NewPoint(1, 0, 10, 40, 50, 60),
		data.NewPoint(0, 1, 15, 70, 80, 90),
		data.NewPoint(1, 1, 20, 100, 110, 120),
	}}
	m, err := mesh.Triangulate(pc, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.ply")
	require.NoError(t, NewStandardExporter().Export(path, m))

	doc, err := ReadPlyFile(path)
	require.NoError(t, err)

	wantVertices, wantFaces := FromMesh(m)
	if diff := cmp.Diff(wantVertices, doc.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Face{{0, 1, 2}, {1, 3, 2}}, doc.Faces)
	assert.Equal(t, wantFaces, doc.Faces)
}

func TestWritePlyFile_BadPath(t *testing.T) {
	err := WritePlyFile(filepath.Join(t.TempDir(), "missing", "out.ply"), nil, nil)
	assert.Error(t, err)
}
