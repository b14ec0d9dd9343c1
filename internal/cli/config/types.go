// Package config resolves the build parameters for one invocation by
// merging hard-coded fallbacks, the persisted config file, exported
// RAPIDS_* environment variables, and explicit command-line flags.
package config

import (
	"github.com/rapidslab/rapidsdev/internal/project"
)

// Config holds all resolved parameters for one invocation. It is created
// fresh per invocation and never written back to the config file.
type Config struct {
	// RapidsRoot is the directory holding one checkout per project.
	RapidsRoot string `koanf:"rapids_root"`

	// Container names the dev container commands run in. Empty means
	// run directly on the host.
	Container string `koanf:"container"`

	// BuildType is Debug or Release.
	BuildType string `koanf:"build_type"`

	// Per-project enablement. False for all means "everything".
	RMM       bool `koanf:"rmm"`
	CUDF      bool `koanf:"cudf"`
	CUML      bool `koanf:"cuml"`
	CUGraph   bool `koanf:"cugraph"`
	CUSpatial bool `koanf:"cuspatial"`

	Tests  bool `koanf:"tests"`
	Bench  bool `koanf:"bench"`
	Legacy bool `koanf:"legacy"`

	// ParallelLevel is the job count forwarded to the build tool.
	ParallelLevel int `koanf:"parallel_level"`

	// GCCVersion selects the host compiler pair. Zero or an unsupported
	// value triggers the interactive prompt at configure time.
	GCCVersion int `koanf:"gcc_version"`

	// NoDeprecationWarnings appends -Wno-deprecated-declarations for the
	// C, C++ and device compilers.
	NoDeprecationWarnings bool `koanf:"no_deprecation_warnings"`

	// Per-project external library locations, forwarded verbatim into
	// the CMake argument assembly.
	CypherParserInclude string `koanf:"cypher_parser_include"`
	CypherParserLibrary string `koanf:"cypher_parser_library"`
	BLASLibraries       string `koanf:"blas_libraries"`
	LibraryPath         string `koanf:"library_path"`
	IncludePath         string `koanf:"include_path"`

	StatePath    string `koanf:"state_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values - the end of the precedence chain.
const (
	DefaultRapidsRoot    = "/rapids"
	DefaultBuildType     = "Release"
	DefaultParallelLevel = 4
	DefaultStateFile     = ".rapidsdev/state.db"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=plain
)

// Selection returns the explicitly enabled projects, in build order.
// An empty result means the caller should treat the selection as "all".
func (c *Config) Selection() []project.Name {
	var sel []project.Name
	for _, n := range project.BuildOrder {
		if c.enabled(n) {
			sel = append(sel, n)
		}
	}
	return sel
}

func (c *Config) enabled(n project.Name) bool {
	switch n {
	case project.RMM:
		return c.RMM
	case project.CUDF:
		return c.CUDF
	case project.CUML:
		return c.CUML
	case project.CUGraph:
		return c.CUGraph
	case project.CUSpatial:
		return c.CUSpatial
	}
	return false
}
