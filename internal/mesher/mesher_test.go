package mesher

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	assert.Equal(t, SideBySide, ParseLayout("side-by-side"))
	assert.Equal(t, SideBySide, ParseLayout(" sbs "))
	assert.Equal(t, OverUnder, ParseLayout("OVER_UNDER"))
	assert.Equal(t, OverUnder, ParseLayout("tab"))
	assert.Equal(t, Layout(""), ParseLayout("anaglyph"))

	assert.Equal(t, "Side-By-Side", SideBySide.String())
	assert.Equal(t, "Over-Under", OverUnder.String())
}

func TestParseResampleModeAndInterpolation(t *testing.T) {
	assert.Equal(t, ResizeThenRotate, ParseResampleMode("resize-rotate"))
	assert.Equal(t, ResizeOnly, ParseResampleMode("RESIZE_ONLY"))
	assert.Equal(t, ResampleMode(""), ParseResampleMode("rotate"))

	assert.Equal(t, Lanczos3, ParseInterpolation("lanczos3"))
	assert.Equal(t, Bicubic, ParseInterpolation("Bicubic"))
	assert.Equal(t, Interpolation(""), ParseInterpolation("area"))
}

func TestMatcherOptions_Penalties(t *testing.T) {
	m := DefaultOptions().Matcher
	p1, p2 := m.Penalties()
	assert.Equal(t, 8*3*15*15, p1)
	assert.Equal(t, 32*3*15*15, p2)

	m.P1, m.P2 = 100, 50
	p1, p2 = m.Penalties()
	assert.Equal(t, 100, p1)
	assert.Equal(t, 101, p2)
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	tests := map[string]func(o *Options){
		"no disparities":  func(o *Options) { o.Matcher.NumDisparities = 0 },
		"negative min":    func(o *Options) { o.Matcher.MinDisparity = -1 },
		"range too wide":  func(o *Options) { o.Matcher.NumDisparities = 4096 },
		"even block":      func(o *Options) { o.Matcher.BlockSize = 4 },
		"zero block":      func(o *Options) { o.Matcher.BlockSize = 0 },
		"huge penalty":    func(o *Options) { o.Matcher.P2 = 1 << 25 },
		"cap":             func(o *Options) { o.Matcher.PreFilterCap = 0 },
		"uniqueness":      func(o *Options) { o.Matcher.UniquenessRatio = 100 },
		"paths":           func(o *Options) { o.Matcher.Paths = 2 },
		"sigma":           func(o *Options) { o.Filter.SigmaColor = 0 },
		"iterations":      func(o *Options) { o.Filter.Iterations = 0 },
		"tie break":       func(o *Options) { o.TieBreak = "" },
		"resample mode":   func(o *Options) { o.ResampleMode = "" },
		"rotation":        func(o *Options) { o.RotationDegrees = 45 },
		"interpolation":   func(o *Options) { o.Interpolation = "" },
		"negative lambda": func(o *Options) { o.Filter.Lambda = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			o := DefaultOptions()
			mutate(o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestOptions_Copy(t *testing.T) {
	o := DefaultOptions()
	o.DepthExportOptions = &DepthExportOptions{Output: "a.png"}
	o.VerifyOptions = &VerifyOptions{ExpectedWidth: 3}

	c := o.Copy()
	c.Matcher.BlockSize = 9
	c.DepthExportOptions.Output = "b.png"
	c.VerifyOptions.ExpectedWidth = 4

	assert.Equal(t, 5, o.Matcher.BlockSize)
	assert.Equal(t, "a.png", o.DepthExportOptions.Output)
	assert.Equal(t, 3, o.VerifyOptions.ExpectedWidth)
}

func TestErrors(t *testing.T) {
	missing := &InputError{Path: "x.png", Err: os.ErrNotExist}
	assert.True(t, missing.NotFound())
	assert.True(t, errors.Is(missing, os.ErrNotExist))
	assert.Contains(t, missing.Error(), "x.png")

	err := CheckDimensions("mesh", 5, 1, 2)
	var geomErr *GeometryError
	require.True(t, errors.As(err, &geomErr))
	assert.Equal(t, "height", geomErr.Dimension)
	assert.Equal(t, 1, geomErr.Value)
	assert.Equal(t, "mesh: degenerate height 1", err.Error())
	assert.NoError(t, CheckDimensions("mesh", 2, 2, 2))
}
