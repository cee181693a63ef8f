package tools

import (
	"os"

	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

var errIsDirectory = errors.New("input is a directory")

// Resolves the files a command reads and writes. Default outputs append a suffix to the
// full input name, extension included.
type FileFinder interface {
	GetInputFile(opts *mesher.Options) (string, error)
	GetMeshOutputPath(opts *mesher.Options) string
	GetDepthOutputPath(opts *mesher.Options) string
	GetViewOutputPaths(opts *mesher.Options) (string, string)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// Returns the input screenshot, or an InputError when it is missing or a folder
func (f *StandardFileFinder) GetInputFile(opts *mesher.Options) (string, error) {
	info, err := os.Stat(opts.Input)
	if err != nil {
		return "", &mesher.InputError{Path: opts.Input, Err: err}
	}
	if info.IsDir() {
		return "", &mesher.InputError{Path: opts.Input, Err: errIsDirectory}
	}
	return opts.Input, nil
}

func (f *StandardFileFinder) GetMeshOutputPath(opts *mesher.Options) string {
	if opts.Output != "" {
		return opts.Output
	}
	return opts.Input + ".ply"
}

func (f *StandardFileFinder) GetDepthOutputPath(opts *mesher.Options) string {
	if opts.DepthExportOptions != nil && opts.DepthExportOptions.Output != "" {
		return opts.DepthExportOptions.Output
	}
	return opts.Input + "-depth.png"
}

func (f *StandardFileFinder) GetViewOutputPaths(opts *mesher.Options) (string, string) {
	return opts.Input + "-left.png", opts.Input + "-right.png"
}
