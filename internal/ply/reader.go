package ply

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrFormat = errors.New("unsupported ply document")

// Parsed content of a PLY document written by Write
type Document struct {
	Vertices []Vertex
	Faces    []Face
}

// Reads an ASCII PLY document with the vertex and face layout produced by Write
func Read(in io.Reader) (*Document, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimSpace(sc.Text()), true
	}
	fail := func(format string, args ...interface{}) error {
		return errors.Wrapf(ErrFormat, "line %d: "+format, append([]interface{}{line}, args...)...)
	}

	if l, ok := next(); !ok || l != "ply" {
		return nil, fail("missing ply magic")
	}
	if l, ok := next(); !ok || l != "format ascii 1.0" {
		return nil, fail("only ascii 1.0 is supported")
	}

	numVertices, numFaces := -1, -1
	for {
		l, ok := next()
		if !ok {
			return nil, fail("unterminated header")
		}
		if l == "end_header" {
			break
		}
		fields := strings.Fields(l)
		if len(fields) == 0 || fields[0] == "comment" || fields[0] == "property" {
			continue
		}
		if fields[0] != "element" || len(fields) != 3 {
			return nil, fail("unexpected header line %q", l)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return nil, fail("bad element count %q", fields[2])
		}
		switch fields[1] {
		case "vertex":
			numVertices = n
		case "face":
			numFaces = n
		default:
			return nil, fail("unknown element %q", fields[1])
		}
	}
	if numVertices < 0 || numFaces < 0 {
		return nil, fail("vertex and face elements are required")
	}

	doc := &Document{
		Vertices: make([]Vertex, numVertices),
		Faces:    make([]Face, numFaces),
	}
	for i := range doc.Vertices {
		l, ok := next()
		if !ok {
			return nil, fail("expected %d vertices, got %d", numVertices, i)
		}
		fields := strings.Fields(l)
		if len(fields) != 6 {
			return nil, fail("vertex needs 6 values, got %d", len(fields))
		}
		var xyz [3]float32
		for k := 0; k < 3; k++ {
			f, err := strconv.ParseFloat(fields[k], 32)
			if err != nil {
				return nil, fail("bad coordinate %q", fields[k])
			}
			xyz[k] = float32(f)
		}
		var rgb [3]uint8
		for k := 0; k < 3; k++ {
			c, err := strconv.ParseUint(fields[3+k], 10, 8)
			if err != nil {
				return nil, fail("bad color %q", fields[3+k])
			}
			rgb[k] = uint8(c)
		}
		doc.Vertices[i] = Vertex{X: xyz[0], Y: xyz[1], Z: xyz[2], R: rgb[0], G: rgb[1], B: rgb[2]}
	}
	for i := range doc.Faces {
		l, ok := next()
		if !ok {
			return nil, fail("expected %d faces, got %d", numFaces, i)
		}
		fields := strings.Fields(l)
		if len(fields) != 4 || fields[0] != "3" {
			return nil, fail("only triangles are supported")
		}
		for k := 0; k < 3; k++ {
			idx, err := strconv.ParseInt(fields[1+k], 10, 32)
			if err != nil {
				return nil, fail("bad vertex index %q", fields[1+k])
			}
			doc.Faces[i][k] = int32(idx)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading ply")
	}
	return doc, nil
}

func ReadPlyFile(filePath string) (*Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filePath)
	}
	defer f.Close()
	return Read(f)
}
