package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry("/rapids")
	require.NoError(t, err)
	return r
}

func TestRegistry_Layout(t *testing.T) {
	r := newTestRegistry(t)

	cudf, ok := r.Get(CUDF)
	require.True(t, ok)

	assert.Equal(t, filepath.Join("/rapids", "cudf"), cudf.SourceRoot)
	assert.Equal(t, filepath.Join("/rapids", "cudf", "cpp", "build"), cudf.BuildDir)
	assert.Equal(t, filepath.Join("/rapids", "cudf", "python"), cudf.PythonDir)
	assert.Equal(t, filepath.Join(cudf.BuildDir, "compile_commands.json"), cudf.CompileDBPath())
	assert.Equal(t, filepath.Join(cudf.CPPDir, "compile_commands.json"), cudf.CompileDBLink())
}

func TestRegistry_CudfBuildsStringLibraryFirst(t *testing.T) {
	r := newTestRegistry(t)

	cudf, ok := r.Get(CUDF)
	require.True(t, ok)
	require.Equal(t, []Name{"nvstrings", CUDF}, cudf.CPPTargets)

	rmm, ok := r.Get(RMM)
	require.True(t, ok)
	require.Equal(t, []Name{RMM}, rmm.CPPTargets)
}

func TestRegistry_Closure_DownstreamImpliesUpstream(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name      string
		selection []Name
		want      []Name
	}{
		{
			name:      "cuml pulls cudf and rmm",
			selection: []Name{CUML},
			want:      []Name{RMM, CUDF, CUML},
		},
		{
			name:      "cugraph pulls cudf and rmm",
			selection: []Name{CUGraph},
			want:      []Name{RMM, CUDF, CUGraph},
		},
		{
			name:      "cuspatial pulls cudf and rmm",
			selection: []Name{CUSpatial},
			want:      []Name{RMM, CUDF, CUSpatial},
		},
		{
			name:      "cudf pulls rmm only",
			selection: []Name{CUDF},
			want:      []Name{RMM, CUDF},
		},
		{
			name:      "rmm alone stays alone",
			selection: []Name{RMM},
			want:      []Name{RMM},
		},
		{
			name:      "empty selection means everything",
			selection: nil,
			want:      BuildOrder,
		},
		{
			name:      "duplicates collapse",
			selection: []Name{CUML, CUML, CUDF},
			want:      []Name{RMM, CUDF, CUML},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Closure(tt.selection))
		})
	}
}

func TestRegistry_Closure_IsInBuildOrder(t *testing.T) {
	r := newTestRegistry(t)

	got := r.Closure([]Name{CUSpatial, CUML, CUGraph})
	assert.Equal(t, []Name{RMM, CUDF, CUML, CUGraph, CUSpatial}, got)
}

func TestRegistry_BuildOrderIsTopological(t *testing.T) {
	r := newTestRegistry(t)

	sorted, err := r.Graph().TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, len(BuildOrder))

	pos := make(map[string]int, len(sorted))
	for i, id := range sorted {
		pos[id] = i
	}
	for _, n := range BuildOrder {
		p, ok := r.Get(n)
		require.True(t, ok)
		for _, dep := range p.DependsOn {
			assert.Less(t, pos[string(dep)], pos[string(n)],
				"%s must sort after its dependency %s", n, dep)
		}
	}
}

func TestRegistry_LintSupport(t *testing.T) {
	r := newTestRegistry(t)

	for _, tt := range []struct {
		name Name
		want bool
	}{
		{RMM, true},
		{CUDF, true},
		{CUML, false},
		{CUGraph, false},
		{CUSpatial, false},
	} {
		p, ok := r.Get(tt.name)
		require.True(t, ok)
		assert.Equal(t, tt.want, p.LintSupported, "lint support for %s", tt.name)
	}
}

func TestParseName(t *testing.T) {
	n, err := ParseName("cudf")
	require.NoError(t, err)
	assert.Equal(t, CUDF, n)

	_, err = ParseName("pandas")
	assert.Error(t, err)
}
