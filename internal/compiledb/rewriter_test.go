package compiledb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDatabase(t *testing.T, dir string, entries []Entry) string {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(dir, "compile_commands.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRewrite_ProducesNewFile(t *testing.T) {
	dir := t.TempDir()
	input := writeDatabase(t, dir, []Entry{
		{
			Directory: "/rapids/cudf/cpp/build",
			Command:   "/usr/local/bin/nvcc -x cu -c src/join.cu -o join.o",
			File:      "src/join.cu",
		},
	})
	original, err := os.ReadFile(input)
	require.NoError(t, err)

	rw := NewRewriter()
	output, err := rw.Rewrite(input)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "compile_commands.clangd.json"), output)

	// Original file never mutated
	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, original, after)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Command, "-x cuda")
	assert.Contains(t, entries[0].Command, "/usr/local/cuda/bin/nvcc")
	assert.Equal(t, "/rapids/cudf/cpp/build", entries[0].Directory)
	assert.Equal(t, "src/join.cu", entries[0].File)
}

func TestRewrite_MissingInput(t *testing.T) {
	rw := NewRewriter()
	_, err := rw.Rewrite(filepath.Join(t.TempDir(), "compile_commands.json"))
	assert.True(t, errors.Is(err, ErrNoDatabase))
}

func TestRewrite_MalformedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compile_commands.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	rw := NewRewriter()
	_, err := rw.Rewrite(path)
	assert.True(t, errors.Is(err, ErrNoDatabase))
}

func TestRewrite_DeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	input := writeDatabase(t, dir, []Entry{
		{
			Directory: "/rapids/rmm/cpp/build",
			Command:   "/usr/local/bin/nvcc --generate-code=arch=compute_70,code=sm_70 -x cu -c a.cu",
			File:      "a.cu",
		},
	})

	rw := NewRewriter()
	out1, err := rw.Rewrite(input)
	require.NoError(t, err)
	first, err := os.ReadFile(out1)
	require.NoError(t, err)

	out2, err := rw.Rewrite(input)
	require.NoError(t, err)
	second, err := os.ReadFile(out2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "compile_commands.clangd.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0o644))
	link := filepath.Join(dir, "compile_commands.json")

	changed, err := Publish(target, link)
	require.NoError(t, err)
	assert.True(t, changed)

	current, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, current)
}

func TestPublish_NoOpWhenCurrent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "compile_commands.clangd.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0o644))
	link := filepath.Join(dir, "compile_commands.json")

	changed, err := Publish(target, link)
	require.NoError(t, err)
	require.True(t, changed)

	// Republish with the same target is a no-op
	changed, err = Publish(target, link)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPublish_RelinksWhenTargetDiffers(t *testing.T) {
	dir := t.TempDir()
	oldTarget := filepath.Join(dir, "old.json")
	newTarget := filepath.Join(dir, "new.json")
	require.NoError(t, os.WriteFile(oldTarget, []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(newTarget, []byte("[]"), 0o644))
	link := filepath.Join(dir, "compile_commands.json")

	_, err := Publish(oldTarget, link)
	require.NoError(t, err)

	changed, err := Publish(newTarget, link)
	require.NoError(t, err)
	assert.True(t, changed)

	current, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, newTarget, current)
}
