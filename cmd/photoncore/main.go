// Command photoncore loads a PBRT scene file, renders it with the
// tile-parallel worker pool in pkg/renderer, and writes the result as an
// 8-bit sRGB PNG. The root command owns global flags and version info;
// each subcommand owns its own flag set and RunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-photoncore/pkg/scene"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "photoncore",
	Short:   "A spectral Monte Carlo renderer for PBRT scene files",
	Version: version,
}

func main() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(listCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "photoncore: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the process exit code: 1 for a generic
// parse error, 2 for an unsupported feature, 3 for a singular transform,
// 4 for a missing asset. Exit 0 is never reached here, since main only
// calls this after a non-nil error.
func exitCodeFor(err error) int {
	var unsupported *scene.UnsupportedFeatureError
	if errors.As(err, &unsupported) {
		return 2
	}
	var singular *scene.SingularTransformError
	if errors.As(err, &singular) {
		return 3
	}
	var missing *scene.AssetMissingError
	if errors.As(err, &missing) {
		return 4
	}
	return 1
}
