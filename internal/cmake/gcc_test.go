package cmake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPrompter replays canned answers.
type stubPrompter struct {
	answers []string
	asked   int
}

func (s *stubPrompter) Ask(string) (string, error) {
	if s.asked >= len(s.answers) {
		panic("prompter exhausted")
	}
	answer := s.answers[s.asked]
	s.asked++
	return answer, nil
}

func newTestSelector(t *testing.T, answers ...string) (*Selector, *stubPrompter) {
	t.Helper()
	p := &stubPrompter{answers: answers}
	return &Selector{
		Prompter: p,
		BinDir:   "/usr/bin",
		LinkDir:  t.TempDir(),
	}, p
}

func TestSelector_ValidVersionSkipsPrompt(t *testing.T) {
	s, p := newTestSelector(t)

	tc, err := s.Select(7)
	require.NoError(t, err)

	assert.Equal(t, 7, tc.Version)
	assert.Equal(t, "/usr/bin/gcc-7", tc.CC)
	assert.Equal(t, "/usr/bin/g++-7", tc.CXX)
	assert.Equal(t, 0, p.asked)
}

func TestSelector_PromptsUntilValid(t *testing.T) {
	s, p := newTestSelector(t, "6", "abc", "8")

	tc, err := s.Select(0)
	require.NoError(t, err)

	assert.Equal(t, 8, tc.Version)
	assert.Equal(t, 3, p.asked)
}

func TestSelector_InvalidConfiguredValuePrompts(t *testing.T) {
	s, p := newTestSelector(t, "5")

	tc, err := s.Select(9)
	require.NoError(t, err)

	assert.Equal(t, 5, tc.Version)
	assert.Equal(t, 1, p.asked)
}

func TestSelector_UpdatesCompilerLinks(t *testing.T) {
	s, _ := newTestSelector(t)

	_, err := s.Select(7)
	require.NoError(t, err)

	gcc, err := os.Readlink(filepath.Join(s.LinkDir, "gcc"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/gcc-7", gcc)

	gxx, err := os.Readlink(filepath.Join(s.LinkDir, "g++"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/g++-7", gxx)
}

func TestSelector_RelinkOnVersionChange(t *testing.T) {
	s, _ := newTestSelector(t)

	_, err := s.Select(7)
	require.NoError(t, err)
	_, err = s.Select(8)
	require.NoError(t, err)

	gcc, err := os.Readlink(filepath.Join(s.LinkDir, "gcc"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/gcc-8", gcc)
}
