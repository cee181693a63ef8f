package mesher

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type Layout string
type ResampleMode string
type Interpolation string

const (
	// Left and right eye views packed next to each other
	SideBySide Layout = "SIDE_BY_SIDE"
	// Eye views stacked one above the other
	OverUnder Layout = "OVER_UNDER"
)

const (
	// Resize color and depth to the full image size, then rotate both by RotationDegrees.
	// Produces the "tall" geometry most mesh viewers expect.
	ResizeThenRotate ResampleMode = "RESIZE_ROTATE"
	// Resize only, the lattice keeps the orientation of the screenshot.
	ResizeOnly ResampleMode = "RESIZE_ONLY"
)

const (
	NearestNeighbor   Interpolation = "NEAREST"
	Bilinear          Interpolation = "BILINEAR"
	Bicubic           Interpolation = "BICUBIC"
	MitchellNetravali Interpolation = "MITCHELL"
	Lanczos2          Interpolation = "LANCZOS2"
	Lanczos3          Interpolation = "LANCZOS3"
)

func (l Layout) String() string {
	if l == SideBySide {
		return "Side-By-Side"
	} else if l == OverUnder {
		return "Over-Under"
	}
	return ""
}

func ParseLayout(value string) Layout {
	normalizedValue := normalizeEnum(value)
	switch normalizedValue {
	case "SIDE_BY_SIDE", "SBS":
		return SideBySide
	case "OVER_UNDER", "OU", "TAB":
		return OverUnder
	}
	return ""
}

func ParseResampleMode(value string) ResampleMode {
	normalizedValue := normalizeEnum(value)
	if normalizedValue == "RESIZE_ROTATE" {
		return ResizeThenRotate
	} else if normalizedValue == "RESIZE_ONLY" {
		return ResizeOnly
	}
	return ""
}

func ParseInterpolation(value string) Interpolation {
	switch i := Interpolation(normalizeEnum(value)); i {
	case NearestNeighbor, Bilinear, Bicubic, MitchellNetravali, Lanczos2, Lanczos3:
		return i
	}
	return ""
}

func normalizeEnum(value string) string {
	return strings.ReplaceAll(strings.Trim(strings.ToUpper(value), " "), "-", "_")
}

const (
	// largest disparity representable in 1/16 pixel int16 units
	maxDisparity = 2047
	// keeps path costs of eight aggregation directions inside uint32
	maxPenalty = 1 << 24
)

// Parameters of the semi-global block matcher
type MatcherOptions struct {
	MinDisparity    int // smallest disparity searched, in pixels
	NumDisparities  int // size of the disparity search range, in pixels
	BlockSize       int // side of the square matching window, odd
	WindowSize      int // scales the default smoothness penalties (P = k*3*WindowSize^2)
	P1              int // penalty for disparity changes of one pixel, 0 derives it from WindowSize
	P2              int // penalty for larger disparity jumps, 0 derives it from WindowSize
	PreFilterCap    int // per channel clip of the matching cost
	UniquenessRatio int // margin in percent the best cost must win by, 0 disables the check
	Paths           int // number of aggregation directions, 4 or 8
}

// Parameters of the edge aware weighted least squares disparity filter
type FilterOptions struct {
	Lambda            float64 // smoothness weight
	SigmaColor        float64 // sensitivity to color edges of the guide image
	LRCThreshold      int     // tolerated left/right disparity mismatch, in 1/16 pixel
	Iterations        int     // number of horizontal+vertical solve rounds
	LambdaAttenuation float64 // lambda multiplier applied after each round
}

// Contains every tunable of a single conversion run. Options are passed explicitly to each
// pipeline stage, nothing is read from package level state.
type Options struct {
	Input  string // Input stereo screenshot
	Output string // Output PLY file, defaults to <Input>.ply

	TieBreak     Layout // Layout reported when both split scores are equal
	TiePrecision int32  // Decimal places the split scores are rounded to before comparing
	Matcher      MatcherOptions
	Filter       FilterOptions
	Intensity    float64 // Multiplier applied to depth samples to get the z coordinate
	ZOffset      float64 // Constant added to every z coordinate

	ResampleMode    ResampleMode  // Ordering of the resize and rotate steps
	RotationDegrees int           // Clockwise rotation applied in ResizeThenRotate mode
	Interpolation   Interpolation // Filter used when resampling color and depth

	Workers int // Number of worker goroutines for row parallel stages

	Command            string
	DepthExportOptions *DepthExportOptions
	VerifyOptions      *VerifyOptions
}

type DepthExportOptions struct {
	Output    string // Output depth PNG, defaults to <Input>-depth.png
	SaveViews bool   // Also writes the split eye views as <Input>-left.png and <Input>-right.png
}

type VerifyOptions struct {
	ExpectedWidth  int // Expected lattice width, 0 skips the check
	ExpectedHeight int // Expected lattice height, 0 skips the check
}

// Returns options populated with the default tunables
func DefaultOptions() *Options {
	return &Options{
		TieBreak:     SideBySide,
		TiePrecision: 6,
		Matcher: MatcherOptions{
			MinDisparity:    0,
			NumDisparities:  16,
			BlockSize:       5,
			WindowSize:      15,
			PreFilterCap:    63,
			UniquenessRatio: 0,
			Paths:           8,
		},
		Filter: FilterOptions{
			Lambda:            80000,
			SigmaColor:        1.2,
			LRCThreshold:      24,
			Iterations:        3,
			LambdaAttenuation: 0.25,
		},
		Intensity:       5,
		ResampleMode:    ResizeThenRotate,
		RotationDegrees: 90,
		Interpolation:   Bicubic,
		Workers:         runtime.NumCPU(),
	}
}

// Returns the effective P1 and P2 smoothness penalties. P2 is kept strictly above P1.
func (m MatcherOptions) Penalties() (int, int) {
	p1, p2 := m.P1, m.P2
	if p1 <= 0 {
		p1 = 8 * 3 * m.WindowSize * m.WindowSize
	}
	if p2 <= 0 {
		p2 = 32 * 3 * m.WindowSize * m.WindowSize
	}
	if p2 <= p1 {
		p2 = p1 + 1
	}
	return p1, p2
}

// Checks the tunables for values the pipeline cannot work with
func (opt *Options) Validate() error {
	m := opt.Matcher
	if m.NumDisparities < 1 {
		return errors.Errorf("num-disparities must be positive, got %d", m.NumDisparities)
	}
	if m.MinDisparity < 0 {
		return errors.Errorf("min-disparity cannot be negative, got %d", m.MinDisparity)
	}
	if m.MinDisparity+m.NumDisparities > maxDisparity {
		return errors.Errorf("disparity search range cannot exceed %d pixels", maxDisparity)
	}
	if p1, p2 := m.Penalties(); p1 < 0 || p2 > maxPenalty {
		return errors.Errorf("smoothness penalties out of range: P1=%d P2=%d", p1, p2)
	}
	if m.BlockSize < 1 || m.BlockSize%2 == 0 {
		return errors.Errorf("block-size must be a positive odd number, got %d", m.BlockSize)
	}
	if m.PreFilterCap < 1 || m.PreFilterCap > 255 {
		return errors.Errorf("pre-filter-cap must be in [1, 255], got %d", m.PreFilterCap)
	}
	if m.UniquenessRatio < 0 || m.UniquenessRatio >= 100 {
		return errors.Errorf("uniqueness-ratio must be in [0, 100), got %d", m.UniquenessRatio)
	}
	if m.Paths != 4 && m.Paths != 8 {
		return errors.Errorf("paths must be 4 or 8, got %d", m.Paths)
	}
	f := opt.Filter
	if f.Lambda < 0 || f.SigmaColor <= 0 {
		return errors.Errorf("invalid wls parameters lambda=%v sigma-color=%v", f.Lambda, f.SigmaColor)
	}
	if f.Iterations < 1 {
		return errors.Errorf("wls iterations must be positive, got %d", f.Iterations)
	}
	if opt.TieBreak != SideBySide && opt.TieBreak != OverUnder {
		return errors.Errorf("tie-break should be either SIDE_BY_SIDE or OVER_UNDER")
	}
	if opt.ResampleMode == "" {
		return errors.New("resample-mode should be either RESIZE_ROTATE or RESIZE_ONLY")
	}
	if opt.RotationDegrees%90 != 0 {
		return errors.Errorf("rotation must be a multiple of 90 degrees, got %d", opt.RotationDegrees)
	}
	if opt.Interpolation == "" {
		return errors.New("unknown interpolation")
	}
	return nil
}

func (opt *Options) Copy() *Options {
	newOpt := *opt

	if opt.DepthExportOptions != nil {
		depthOpt := *opt.DepthExportOptions
		newOpt.DepthExportOptions = &depthOpt
	}

	if opt.VerifyOptions != nil {
		verifyOpt := *opt.VerifyOptions
		newOpt.VerifyOptions = &verifyOpt
	}

	return &newOpt
}
