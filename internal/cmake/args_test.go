package cmake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidslab/rapidsdev/internal/cli/config"
	"github.com/rapidslab/rapidsdev/internal/project"
)

func testConfig() *config.Config {
	return &config.Config{
		RapidsRoot:    "/rapids",
		BuildType:     "Release",
		ParallelLevel: 8,
	}
}

func testToolchain() Toolchain {
	return Toolchain{Version: 7, CC: "/usr/bin/gcc-7", CXX: "/usr/bin/g++-7"}
}

func getProject(t *testing.T, name project.Name) *project.Project {
	t.Helper()
	reg, err := project.NewRegistry("/rapids")
	require.NoError(t, err)
	p, ok := reg.Get(name)
	require.True(t, ok)
	return p
}

func argMap(args []Arg) map[string]string {
	m := make(map[string]string, len(args))
	for _, a := range args {
		m[a.Key] = a.Value
	}
	return m
}

func TestAssembleArgs_CommonSet(t *testing.T) {
	p := getProject(t, project.RMM)
	args := AssembleArgs(p, testConfig(), testToolchain())

	m := argMap(args)
	assert.Equal(t, "Release", m["CMAKE_BUILD_TYPE"])
	assert.Equal(t, "", m["GPU_ARCHS"]) // defer to tool default
	assert.Equal(t, "ON", m["CMAKE_CXX11_ABI"])
	assert.Equal(t, "ON", m["CMAKE_EXPORT_COMPILE_COMMANDS"])
	assert.Equal(t, "/usr/bin/gcc-7", m["CMAKE_C_COMPILER"])
	assert.Equal(t, "/usr/bin/g++-7", m["CMAKE_CXX_COMPILER"])
	assert.Equal(t, p.InstallPrefix(), m["CMAKE_INSTALL_PREFIX"])
	assert.Equal(t, "8", m["PARALLEL_LEVEL"])
}

func TestAssembleArgs_OrderIsStable(t *testing.T) {
	p := getProject(t, project.RMM)
	args := AssembleArgs(p, testConfig(), testToolchain())

	assert.Equal(t, "CMAKE_BUILD_TYPE", args[0].Key)
	assert.Equal(t, "GPU_ARCHS", args[1].Key)
	assert.Equal(t, "PARALLEL_LEVEL", args[len(args)-1].Key)
}

func TestAssembleArgs_CUGraphParserPaths(t *testing.T) {
	p := getProject(t, project.CUGraph)
	args := AssembleArgs(p, testConfig(), testToolchain())

	m := argMap(args)
	assert.Contains(t, m, "LIBCYPHERPARSER_INCLUDE")
	assert.Contains(t, m, "LIBCYPHERPARSER_LIBRARY")

	cfg := testConfig()
	cfg.CypherParserInclude = "/opt/cypher/include"
	cfg.CypherParserLibrary = "/opt/cypher/lib/libcypher-parser.a"
	m = argMap(AssembleArgs(p, cfg, testToolchain()))
	assert.Equal(t, "/opt/cypher/include", m["LIBCYPHERPARSER_INCLUDE"])
	assert.Equal(t, "/opt/cypher/lib/libcypher-parser.a", m["LIBCYPHERPARSER_LIBRARY"])
}

func TestAssembleArgs_CUMLExtensions(t *testing.T) {
	p := getProject(t, project.CUML)

	cfg := testConfig()
	cfg.Tests = true
	m := argMap(AssembleArgs(p, cfg, testToolchain()))

	assert.Equal(t, "ON", m["ENABLE_CUMLCOMMS"])
	assert.Equal(t, "ON", m["BUILD_CUML_TESTS"])
	assert.Equal(t, "ON", m["BUILD_CUML_MG_TESTS"])
	assert.Equal(t, "ON", m["BUILD_PRIMS_TESTS"])
	assert.Contains(t, m, "BLAS_LIBRARIES")

	cfg.Tests = false
	m = argMap(AssembleArgs(p, cfg, testToolchain()))
	assert.Equal(t, "OFF", m["BUILD_CUML_TESTS"])
	assert.Equal(t, "OFF", m["BUILD_PRIMS_TESTS"])
}

func TestAssembleArgs_CUSpatialSearchPaths(t *testing.T) {
	p := getProject(t, project.CUSpatial)

	cfg := testConfig()
	cfg.LibraryPath = "/opt/spatial/lib"
	cfg.IncludePath = "/opt/spatial/include"
	m := argMap(AssembleArgs(p, cfg, testToolchain()))

	assert.Equal(t, "/opt/spatial/lib", m["CMAKE_LIBRARY_PATH"])
	assert.Equal(t, "/opt/spatial/include", m["CMAKE_INCLUDE_PATH"])
}

func TestAssembleArgs_NoExtensionsForLeafProjects(t *testing.T) {
	for _, name := range []project.Name{project.RMM, project.CUDF} {
		p := getProject(t, name)
		m := argMap(AssembleArgs(p, testConfig(), testToolchain()))
		assert.NotContains(t, m, "LIBCYPHERPARSER_INCLUDE")
		assert.NotContains(t, m, "ENABLE_CUMLCOMMS")
		assert.NotContains(t, m, "CMAKE_LIBRARY_PATH")
	}
}

func TestAssembleArgs_DeprecationWarningSuppression(t *testing.T) {
	p := getProject(t, project.RMM)

	cfg := testConfig()
	m := argMap(AssembleArgs(p, cfg, testToolchain()))
	assert.NotContains(t, m, "CMAKE_C_FLAGS")

	cfg.NoDeprecationWarnings = true
	m = argMap(AssembleArgs(p, cfg, testToolchain()))
	assert.Equal(t, "-Wno-deprecated-declarations", m["CMAKE_C_FLAGS"])
	assert.Equal(t, "-Wno-deprecated-declarations", m["CMAKE_CXX_FLAGS"])
	assert.Equal(t, "-Xcompiler=-Wno-deprecated-declarations", m["CMAKE_CUDA_FLAGS"])
}

func TestArg_String(t *testing.T) {
	a := Arg{"CMAKE_BUILD_TYPE", "Debug"}
	assert.Equal(t, "-DCMAKE_BUILD_TYPE=Debug", a.String())

	assert.Equal(t, []string{"-DA=1", "-DB="}, Format([]Arg{{"A", "1"}, {"B", ""}}))
}
