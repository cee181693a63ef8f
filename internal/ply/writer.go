package ply

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Single vertex of an ASCII PLY file with per vertex color
type Vertex struct {
	X, Y, Z float32
	R, G, B uint8
}

// Triangle as three vertex indices
type Face [3]int32

// Writes vertices and faces as an ASCII PLY 1.0 document
func Write(out io.Writer, vertices []Vertex, faces []Face) error {
	w := bufio.NewWriter(out)
	w.WriteString("ply\n")
	w.WriteString("format ascii 1.0\n")
	w.WriteString("element vertex " + strconv.Itoa(len(vertices)) + "\n")
	w.WriteString("property float x\n")
	w.WriteString("property float y\n")
	w.WriteString("property float z\n")
	w.WriteString("property uchar red\n")
	w.WriteString("property uchar green\n")
	w.WriteString("property uchar blue\n")
	w.WriteString("element face " + strconv.Itoa(len(faces)) + "\n")
	w.WriteString("property list uchar int vertex_indices\n")
	w.WriteString("end_header\n")

	buf := make([]byte, 0, 64)
	for _, v := range vertices {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, float64(v.X), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(v.Y), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(v.Z), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(v.R), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(v.G), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(v.B), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "writing ply vertex")
		}
	}
	for _, f := range faces {
		buf = append(buf[:0], '3')
		for _, idx := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx), 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "writing ply face")
		}
	}
	return errors.Wrap(w.Flush(), "flushing ply")
}

// Creates filePath and writes the PLY document to it
func WritePlyFile(filePath string, vertices []Vertex, faces []Face) (err error) {
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", filePath)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", filePath)
		}
	}()
	return Write(f, vertices, faces)
}
