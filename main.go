package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/pkg"
	"github.com/ecopia-map/stereo_mesher/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/stereo_mesher/tools"
)

const VERSION = "1.0.0"

const logo = `
     _                                        _
 ___| |_ ___ _ __ ___  ___    _ __ ___   ___ | |__   ___ _ __
/ __| __/ _ \ '__/ _ \/ _ \  | '_ ' _ \ / _ \| '_ \ / _ \ '__|
\__ \ ||  __/ | |  __/ (_) | | | | | | |  __/\__ \ | |  __/ |
|___/\__\___|_|  \___|\___/  |_| |_| |_|\___||___/_|\___|_|
  Stereo screenshot to 3D mesh converter, YYYY
`

const commands = "[convert|detect|depth|verify]"

func main() {
	defer glog.Flush()

	flagsGlobal := tools.ParseFlagsGlobal()
	glog.V(2).Infoln(tools.FmtJSONString(flagsGlobal))

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Exit("Please specify a subcommand " + commands + ".")
	}
	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case tools.CommandConvert:
		err = mainCommandConvert(args)
	case tools.CommandDetect:
		err = mainCommandDetect(args)
	case tools.CommandDepth:
		err = mainCommandDepth(args)
	case tools.CommandVerify:
		err = mainCommandVerify(args)
	default:
		glog.Exitf("Unrecognized command [%q]. Command must be one of %s", cmd, commands)
	}

	if err != nil {
		glog.Flush()
		reportError(err)
		os.Exit(1)
	}
}

func mainCommandConvert(args []string) error {
	flags := tools.ParseFlagsForCommandConvert(args)
	if done := setupOutput(flags.OutputFlags); done {
		return nil
	}

	opts := mesher.DefaultOptions()
	flags.MesherFlags.Apply(opts)
	opts.Output = *flags.Output
	opts.Command = tools.CommandConvert
	glog.Infoln("options", tools.FmtJSONString(opts))

	if err := validateOptions(opts); err != nil {
		return err
	}

	defer timeTrack(time.Now(), "conversion")
	err := pkg.NewMesherConvert(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunMesher(opts)
	if err == nil {
		tools.LogOutput("Conversion Completed")
	}
	return err
}

func mainCommandDetect(args []string) error {
	flags := tools.ParseFlagsForCommandDetect(args)
	if done := setupOutput(flags.OutputFlags); done {
		return nil
	}

	opts := mesher.DefaultOptions()
	flags.MesherFlags.Apply(opts)
	opts.Command = tools.CommandDetect

	if err := validateOptions(opts); err != nil {
		return err
	}

	return pkg.NewMesherDetect(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunMesher(opts)
}

func mainCommandDepth(args []string) error {
	flags := tools.ParseFlagsForCommandDepth(args)
	if done := setupOutput(flags.OutputFlags); done {
		return nil
	}

	opts := mesher.DefaultOptions()
	flags.MesherFlags.Apply(opts)
	opts.Command = tools.CommandDepth
	opts.DepthExportOptions = &mesher.DepthExportOptions{
		Output:    *flags.Output,
		SaveViews: *flags.SaveViews,
	}
	glog.Infoln("options", tools.FmtJSONString(opts))

	if err := validateOptions(opts); err != nil {
		return err
	}

	defer timeTrack(time.Now(), "depth export")
	return pkg.NewMesherDepth(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunMesher(opts)
}

func mainCommandVerify(args []string) error {
	flags := tools.ParseFlagsForCommandVerify(args)
	if done := setupOutput(flags.OutputFlags); done {
		return nil
	}

	opts := mesher.DefaultOptions()
	opts.Input = *flags.Input
	opts.Command = tools.CommandVerify
	opts.VerifyOptions = &mesher.VerifyOptions{
		ExpectedWidth:  *flags.Width,
		ExpectedHeight: *flags.Height,
	}

	if opts.Input == "" {
		return errors.New("input PLY file not specified")
	}

	return pkg.NewMesherVerify().RunMesher(opts)
}

// Applies help, version, silent and timestamp flags. Returns true when the command has
// nothing left to do.
func setupOutput(flags tools.OutputFlags) bool {
	if *flags.Help {
		showHelp()
		return true
	}
	if *flags.Version {
		printVersion()
		return true
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}
	return false
}

// Validates the input options provided to the command line tool
func validateOptions(opts *mesher.Options) error {
	if opts.Input == "" {
		return errors.New("input image not specified")
	}
	if err := opts.Validate(); err != nil {
		return errors.Wrap(err, "error parsing input parameters")
	}
	return nil
}

func reportError(err error) {
	var inputErr *mesher.InputError
	var geomErr *mesher.GeometryError
	switch {
	case errors.As(err, &inputErr) && inputErr.NotFound():
		fmt.Fprintf(os.Stderr, "Input file not found: %s\n", inputErr.Path)
	case errors.As(err, &inputErr):
		fmt.Fprintf(os.Stderr, "Cannot read input %s: %v\n", inputErr.Path, inputErr.Err)
	case errors.As(err, &geomErr):
		fmt.Fprintf(os.Stderr, "Image cannot be converted: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("stereo_mesher converts a side-by-side or over-under stereo screenshot into a colored PLY height field mesh")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: stereo_mesher " + commands + " [flags]")
	fmt.Println("Run a command with -help to list its flags.")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
