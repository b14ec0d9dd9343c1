package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags registers the recognized flags on a flag set. The root
// command and tests share this so the resolver and the CLI cannot
// drift apart.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: ./rapidsdev.yaml)")
	fs.String("rapids-root", "", "Directory holding the project checkouts")
	fs.String("container", "", "Dev container to run build commands in")

	// Project selection
	fs.Bool("rmm", false, "Select the memory manager")
	fs.Bool("cudf", false, "Select the dataframe library")
	fs.Bool("cuml", false, "Select the machine-learning library")
	fs.Bool("cugraph", false, "Select the graph library")
	fs.Bool("cuspatial", false, "Select the spatial library")

	// Build parameters
	fs.BoolP("debug", "d", false, "Configure a Debug build")
	fs.BoolP("release", "r", false, "Configure a Release build")
	fs.BoolP("tests", "t", false, "Build and run test targets")
	fs.BoolP("bench", "b", false, "Build benchmark targets")
	fs.Bool("legacy", false, "Run legacy test suites")
	fs.IntP("jobs", "j", 0, "Parallel job count forwarded to the build tool")
	fs.Int("gcc", 0, "GCC major version (5, 7 or 8)")
	fs.Bool("no-deprecation-warnings", false, "Suppress deprecation warnings in C, C++ and device code")

	fs.String("state", "", "Path to the run-history database")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.StringP("output", "o", "", "Output format (auto|text|plain)")
}
