package ply

import (
	"github.com/golang/glog"

	"github.com/ecopia-map/stereo_mesher/internal/mesh"
)

// Writes a mesh to persistent storage
type Exporter interface {
	Export(filePath string, m *mesh.Mesh) error
}

type StandardExporter struct{}

func NewStandardExporter() Exporter {
	return &StandardExporter{}
}

// Converts the mesh to PLY vertices and faces and writes them to filePath
func (e *StandardExporter) Export(filePath string, m *mesh.Mesh) error {
	vertices, faces := FromMesh(m)
	glog.V(1).Infof("writing %d vertices and %d faces to %s", len(vertices), len(faces), filePath)
	return WritePlyFile(filePath, vertices, faces)
}

func FromMesh(m *mesh.Mesh) ([]Vertex, []Face) {
	vertices := make([]Vertex, len(m.Cloud.Points))
	for i, p := range m.Cloud.Points {
		vertices[i] = Vertex{
			X: float32(p.X),
			Y: float32(p.Y),
			Z: float32(p.Z),
			R: p.R,
			G: p.G,
			B: p.B,
		}
	}
	faces := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = Face{int32(f[0]), int32(f[1]), int32(f[2])}
	}
	return vertices, faces
}
