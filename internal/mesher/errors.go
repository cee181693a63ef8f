package mesher

import (
	"errors"
	"fmt"
	"io/fs"
)

// InputError reports an input image that is missing, unreadable or not decodable.
// It is raised before any pipeline stage runs.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the input file does not exist
func (e *InputError) NotFound() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// GeometryError reports dimensions a stage cannot work with, such as an empty image or a
// lattice too small to triangulate.
type GeometryError struct {
	Stage     string
	Dimension string
	Value     int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: degenerate %s %d", e.Stage, e.Dimension, e.Value)
}

// Returns a GeometryError when width or height is below min, nil otherwise
func CheckDimensions(stage string, width, height, min int) error {
	if width < min {
		return &GeometryError{Stage: stage, Dimension: "width", Value: width}
	}
	if height < min {
		return &GeometryError{Stage: stage, Dimension: "height", Value: height}
	}
	return nil
}
