package tools

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = true
var output io.Writer = os.Stdout

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// Redirects user facing messages, returns the previous destination
func SetLoggerOutput(w io.Writer) io.Writer {
	previous := output
	output = w
	return previous
}

// Prints a user facing progress message. Messages always reach the glog info log,
// the console copy follows the silent and timestamp toggles.
func LogOutput(val ...interface{}) {
	msg := fmt.Sprintln(val...)
	glog.InfoDepth(1, msg)
	if isEnabled {
		if printTimestamp {
			fmt.Fprint(output, "["+time.Now().Format("2006-01-02 15:04:05.000")+"] ")
		}
		fmt.Fprint(output, msg)
	}
}
