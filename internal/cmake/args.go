// Package cmake assembles CMake configuration arguments and resolves
// the host compiler pair.
package cmake

import (
	"fmt"
	"strconv"

	"github.com/rapidslab/rapidsdev/internal/cli/config"
	"github.com/rapidslab/rapidsdev/internal/project"
)

// Arg is one -D key/value pair for the CMake configure step.
type Arg struct {
	Key   string
	Value string
}

// String formats the pair as a CMake define.
func (a Arg) String() string {
	return fmt.Sprintf("-D%s=%s", a.Key, a.Value)
}

// Format renders an argument list as strings for command invocation.
func Format(args []Arg) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, a.String())
	}
	return out
}

// AssembleArgs builds the ordered configure argument list for a project.
// The assembly is pure; the toolchain must already be resolved (see
// Selector, which owns the only interactive step).
func AssembleArgs(p *project.Project, cfg *config.Config, tc Toolchain) []Arg {
	args := []Arg{
		{"CMAKE_BUILD_TYPE", cfg.BuildType},
		// Empty defers architecture selection to the tool default
		{"GPU_ARCHS", ""},
		{"CMAKE_CXX11_ABI", "ON"},
		{"CMAKE_EXPORT_COMPILE_COMMANDS", "ON"},
		{"CMAKE_C_COMPILER", tc.CC},
		{"CMAKE_CXX_COMPILER", tc.CXX},
		{"CMAKE_INSTALL_PREFIX", p.InstallPrefix()},
		{"PARALLEL_LEVEL", strconv.Itoa(cfg.ParallelLevel)},
	}

	args = append(args, projectArgs(p, cfg)...)

	if cfg.NoDeprecationWarnings {
		args = append(args,
			Arg{"CMAKE_C_FLAGS", "-Wno-deprecated-declarations"},
			Arg{"CMAKE_CXX_FLAGS", "-Wno-deprecated-declarations"},
			Arg{"CMAKE_CUDA_FLAGS", "-Xcompiler=-Wno-deprecated-declarations"},
		)
	}

	return args
}

// projectArgs returns the per-project extension arguments. Exactly one
// case applies per project; rmm and cudf need no extensions.
func projectArgs(p *project.Project, cfg *config.Config) []Arg {
	switch p.Name {
	case project.CUGraph:
		include := cfg.CypherParserInclude
		if include == "" {
			include = "/usr/local/include/cypher-parser"
		}
		library := cfg.CypherParserLibrary
		if library == "" {
			library = "/usr/local/lib/libcypher-parser.a"
		}
		return []Arg{
			{"LIBCYPHERPARSER_INCLUDE", include},
			{"LIBCYPHERPARSER_LIBRARY", library},
		}
	case project.CUML:
		blas := cfg.BLASLibraries
		if blas == "" {
			blas = "/usr/lib/x86_64-linux-gnu/libopenblas.so"
		}
		return []Arg{
			{"ENABLE_CUMLCOMMS", "ON"},
			{"BUILD_CUML_TESTS", onOff(cfg.Tests)},
			{"BUILD_CUML_MG_TESTS", onOff(cfg.Tests)},
			{"BUILD_PRIMS_TESTS", onOff(cfg.Bench || cfg.Tests)},
			{"BLAS_LIBRARIES", blas},
		}
	case project.CUSpatial:
		libPath := cfg.LibraryPath
		if libPath == "" {
			libPath = "/usr/local/lib"
		}
		incPath := cfg.IncludePath
		if incPath == "" {
			incPath = "/usr/local/include"
		}
		return []Arg{
			{"CMAKE_LIBRARY_PATH", libPath},
			{"CMAKE_INCLUDE_PATH", incPath},
		}
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
