package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidslab/rapidsdev/internal/project"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rapidsdev.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Fallbacks(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	// A missing explicit file is still read-attempted and fails; load
	// with no file at all instead.
	require.Error(t, err)

	cfg, err = Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "Release", cfg.BuildType)
	assert.Equal(t, DefaultRapidsRoot, cfg.RapidsRoot)
	assert.Equal(t, DefaultParallelLevel, cfg.ParallelLevel)
	assert.False(t, cfg.Tests)
	assert.False(t, cfg.Bench)
	assert.False(t, cfg.Legacy)
	assert.Empty(t, cfg.Selection())
}

func TestLoad_ConfigFileValues(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	path := writeConfigFile(t, `
build_type: Debug
parallel_level: 16
cudf: true
tests: true
`)

	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "Debug", cfg.BuildType)
	assert.Equal(t, 16, cfg.ParallelLevel)
	assert.True(t, cfg.Tests)
	assert.Equal(t, []project.Name{project.CUDF}, cfg.Selection())
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	path := writeConfigFile(t, "build_type: Release\n")
	t.Setenv("RAPIDS_BUILD_TYPE", "Debug")

	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "Debug", cfg.BuildType)
}

func TestLoad_FlagBeatsEnvAndFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	// Persisted default says Release, the exported process state says
	// Debug, and the explicit -r flag must still win with Release.
	path := writeConfigFile(t, "build_type: Release\n")
	t.Setenv("RAPIDS_BUILD_TYPE", "Debug")

	cfg, err := Load(path, newFlags(t, "-r"))
	require.NoError(t, err)

	assert.Equal(t, "Release", cfg.BuildType)
}

func TestLoad_DebugFlag(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := Load("", newFlags(t, "-d"))
	require.NoError(t, err)
	assert.Equal(t, "Debug", cfg.BuildType)
}

func TestLoad_ProjectFlags(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := Load("", newFlags(t, "--cuml", "--cuspatial"))
	require.NoError(t, err)

	assert.Equal(t, []project.Name{project.CUML, project.CUSpatial}, cfg.Selection())
}

func TestLoad_ProjectEnvVars(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("RAPIDS_CUGRAPH", "true")

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, []project.Name{project.CUGraph}, cfg.Selection())
}

func TestLoad_InvalidValuesFallThrough(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("RAPIDS_BUILD_TYPE", "Profile")

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	// Invalid values are never fatal; they fall back.
	assert.Equal(t, "Release", cfg.BuildType)
}

func TestLoad_BuildTypeCaseInsensitive(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("RAPIDS_BUILD_TYPE", "debug")

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "Debug", cfg.BuildType)
}

func TestLoad_JobsFlagMapsToParallelLevel(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := Load("", newFlags(t, "-j", "12"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.ParallelLevel)
}

func TestLoad_StatePathResolvedAgainstRoot(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(DefaultRapidsRoot, DefaultStateFile), cfg.StatePath)
}

func TestValidate(t *testing.T) {
	cfg := &Config{RapidsRoot: "/rapids", BuildType: "Release", ParallelLevel: 4}
	require.NoError(t, cfg.Validate())

	cfg.BuildType = "Profile"
	assert.Error(t, cfg.Validate())

	cfg.BuildType = "Debug"
	cfg.ParallelLevel = 0
	assert.Error(t, cfg.Validate())

	cfg.ParallelLevel = 1
	cfg.RapidsRoot = ""
	assert.Error(t, cfg.Validate())
}
