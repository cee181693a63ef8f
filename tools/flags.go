package tools

import (
	"flag"

	"github.com/golang/glog"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

const (
	CommandConvert = "convert"
	CommandDetect  = "detect"
	CommandDepth   = "depth"
	CommandVerify  = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// Tunables shared by every command running the conversion pipeline
type MesherFlags struct {
	Input           *string  `json:"input"`
	TieBreak        *string  `json:"tie_break"`
	TiePrecision    *int     `json:"tie_precision"`
	MinDisparity    *int     `json:"min_disparity"`
	NumDisparities  *int     `json:"num_disparities"`
	BlockSize       *int     `json:"block_size"`
	WindowSize      *int     `json:"window_size"`
	P1              *int     `json:"p1"`
	P2              *int     `json:"p2"`
	PreFilterCap    *int     `json:"pre_filter_cap"`
	UniquenessRatio *int     `json:"uniqueness_ratio"`
	Paths           *int     `json:"paths"`
	Lambda          *float64 `json:"lambda"`
	SigmaColor      *float64 `json:"sigma_color"`
	LRCThreshold    *int     `json:"lrc_threshold"`
	Iterations      *int     `json:"iterations"`
	Intensity       *float64 `json:"intensity"`
	ZOffset         *float64 `json:"zoffset"`
	ResampleMode    *string  `json:"resample_mode"`
	Rotation        *int     `json:"rotation"`
	Interpolation   *string  `json:"interpolation"`
	Workers         *int     `json:"workers"`
}

type OutputFlags struct {
	Silent       *bool `json:"silent"`
	LogTimestamp *bool `json:"timestamp"`
	Help         *bool `json:"help"`
	Version      *bool `json:"version"`
}

type FlagsForCommandConvert struct {
	MesherFlags
	OutputFlags
	Output *string `json:"output"`
}

type FlagsForCommandDetect struct {
	MesherFlags
	OutputFlags
}

type FlagsForCommandDepth struct {
	MesherFlags
	OutputFlags
	Output    *string `json:"output"`
	SaveViews *bool   `json:"save_views"`
}

type FlagsForCommandVerify struct {
	OutputFlags
	Input  *string `json:"input"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of stereo_mesher.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandConvert(args []string) FlagsForCommandConvert {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-convert", flag.ExitOnError)

	mesherFlags := defineMesherFlags(flagCommand)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output PLY file. Defaults to <input>.ply.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandConvert{
		MesherFlags: mesherFlags,
		OutputFlags: outputFlags,
		Output:      output,
	}
}

func ParseFlagsForCommandDetect(args []string) FlagsForCommandDetect {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-detect", flag.ExitOnError)

	mesherFlags := defineMesherFlags(flagCommand)
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandDetect{
		MesherFlags: mesherFlags,
		OutputFlags: outputFlags,
	}
}

func ParseFlagsForCommandDepth(args []string) FlagsForCommandDepth {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-depth", flag.ExitOnError)

	mesherFlags := defineMesherFlags(flagCommand)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output depth PNG. Defaults to <input>-depth.png.")
	saveViews := defineBoolFlagCommand(flagCommand, "save-views", "", false, "Also writes the split eye views as <input>-left.png and <input>-right.png.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandDepth{
		MesherFlags: mesherFlags,
		OutputFlags: outputFlags,
		Output:      output,
		SaveViews:   saveViews,
	}
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	glog.V(2).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the PLY file to verify.")
	width := defineIntFlagCommand(flagCommand, "width", "", 0, "Expected lattice width, 0 skips the check.")
	height := defineIntFlagCommand(flagCommand, "height", "", 0, "Expected lattice height, 0 skips the check.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	return FlagsForCommandVerify{
		OutputFlags: outputFlags,
		Input:       input,
		Width:       width,
		Height:      height,
	}
}

func defineMesherFlags(flagCommand *flag.FlagSet) MesherFlags {
	d := mesher.DefaultOptions()

	return MesherFlags{
		Input:           defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input stereo screenshot."),
		TieBreak:        defineStringFlagCommand(flagCommand, "tie-break", "", string(d.TieBreak), "Layout reported when both splits score the same, 'SIDE_BY_SIDE' or 'OVER_UNDER'."),
		TiePrecision:    defineIntFlagCommand(flagCommand, "tie-precision", "", int(d.TiePrecision), "Decimal places the split scores are rounded to before comparing them."),
		MinDisparity:    defineIntFlagCommand(flagCommand, "min-disparity", "", d.Matcher.MinDisparity, "Smallest disparity searched, in pixels."),
		NumDisparities:  defineIntFlagCommand(flagCommand, "num-disparities", "n", d.Matcher.NumDisparities, "Size of the disparity search range, in pixels."),
		BlockSize:       defineIntFlagCommand(flagCommand, "block-size", "b", d.Matcher.BlockSize, "Side of the square matching window. Must be odd."),
		WindowSize:      defineIntFlagCommand(flagCommand, "window-size", "w", d.Matcher.WindowSize, "Scales the default smoothness penalties P1=8*3*w^2 and P2=32*3*w^2."),
		P1:              defineIntFlagCommand(flagCommand, "p1", "", d.Matcher.P1, "Penalty for disparity changes of one pixel. 0 derives it from window-size."),
		P2:              defineIntFlagCommand(flagCommand, "p2", "", d.Matcher.P2, "Penalty for larger disparity jumps. 0 derives it from window-size."),
		PreFilterCap:    defineIntFlagCommand(flagCommand, "pre-filter-cap", "", d.Matcher.PreFilterCap, "Per channel clip of the matching cost."),
		UniquenessRatio: defineIntFlagCommand(flagCommand, "uniqueness-ratio", "", d.Matcher.UniquenessRatio, "Margin in percent the best match must win by. 0 disables the check."),
		Paths:           defineIntFlagCommand(flagCommand, "paths", "", d.Matcher.Paths, "Number of SGM aggregation directions, 4 or 8."),
		Lambda:          defineFloat64FlagCommand(flagCommand, "lambda", "l", d.Filter.Lambda, "Smoothness weight of the WLS disparity filter."),
		SigmaColor:      defineFloat64FlagCommand(flagCommand, "sigma-color", "c", d.Filter.SigmaColor, "Sensitivity of the WLS filter to color edges."),
		LRCThreshold:    defineIntFlagCommand(flagCommand, "lrc-threshold", "", d.Filter.LRCThreshold, "Tolerated left/right disparity mismatch, in 1/16 pixel."),
		Iterations:      defineIntFlagCommand(flagCommand, "wls-iterations", "", d.Filter.Iterations, "Number of WLS solve rounds."),
		Intensity:       defineFloat64FlagCommand(flagCommand, "intensity", "z", d.Intensity, "Multiplier applied to depth samples to get the z coordinate."),
		ZOffset:         defineFloat64FlagCommand(flagCommand, "zoffset", "", d.ZOffset, "Constant added to every z coordinate."),
		ResampleMode:    defineStringFlagCommand(flagCommand, "resample-mode", "", string(d.ResampleMode), "'RESIZE_ROTATE' rotates the resampled grids, 'RESIZE_ONLY' keeps the screenshot orientation."),
		Rotation:        defineIntFlagCommand(flagCommand, "rotation", "r", d.RotationDegrees, "Clockwise rotation in degrees applied in RESIZE_ROTATE mode."),
		Interpolation:   defineStringFlagCommand(flagCommand, "interpolation", "", string(d.Interpolation), "Resampling filter: NEAREST, BILINEAR, BICUBIC, MITCHELL, LANCZOS2 or LANCZOS3."),
		Workers:         defineIntFlagCommand(flagCommand, "workers", "j", d.Workers, "Number of worker goroutines."),
	}
}

func defineOutputFlags(flagCommand *flag.FlagSet) OutputFlags {
	return OutputFlags{
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "", false, "Displays the version of stereo_mesher."),
	}
}

// Copies the pipeline tunables into opts
func (f MesherFlags) Apply(opts *mesher.Options) {
	opts.Input = *f.Input
	opts.TieBreak = mesher.ParseLayout(*f.TieBreak)
	opts.TiePrecision = int32(*f.TiePrecision)
	opts.Matcher = mesher.MatcherOptions{
		MinDisparity:    *f.MinDisparity,
		NumDisparities:  *f.NumDisparities,
		BlockSize:       *f.BlockSize,
		WindowSize:      *f.WindowSize,
		P1:              *f.P1,
		P2:              *f.P2,
		PreFilterCap:    *f.PreFilterCap,
		UniquenessRatio: *f.UniquenessRatio,
		Paths:           *f.Paths,
	}
	opts.Filter.Lambda = *f.Lambda
	opts.Filter.SigmaColor = *f.SigmaColor
	opts.Filter.LRCThreshold = *f.LRCThreshold
	opts.Filter.Iterations = *f.Iterations
	opts.Intensity = *f.Intensity
	opts.ZOffset = *f.ZOffset
	opts.ResampleMode = mesher.ParseResampleMode(*f.ResampleMode)
	opts.RotationDegrees = *f.Rotation
	opts.Interpolation = mesher.ParseInterpolation(*f.Interpolation)
	opts.Workers = *f.Workers
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
