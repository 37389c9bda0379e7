// Command ssmvtex bakes a multi-view texture atlas (or per-vertex colours)
// for a 3D mesh from a set of calibrated photographs. It wires the mvtex
// pipeline, the report table and the debugviz chart-layout dump behind an
// urfave/cli command line.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("ssmvtex: %v", err))
		os.Exit(1)
	}
}
