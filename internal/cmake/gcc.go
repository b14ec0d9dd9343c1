package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// SupportedGCCVersions lists the GCC major versions the toolchain images
// ship compilers for.
var SupportedGCCVersions = []int{5, 7, 8}

// Toolchain is a resolved host compiler pair.
type Toolchain struct {
	Version int
	CC      string
	CXX     string
}

// Prompter asks the operator a question and returns the raw answer.
// Production uses a readline prompt; tests inject a stub.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// ReadlinePrompter prompts on the controlling terminal.
type ReadlinePrompter struct{}

// Ask blocks until the operator supplies a line.
func (ReadlinePrompter) Ask(prompt string) (string, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to open prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", fmt.Errorf("prompt aborted: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Selector resolves the GCC toolchain for configure steps. Selecting a
// version updates the gcc/g++ links under LinkDir so later tool
// invocations pick up the same compilers.
type Selector struct {
	Prompter Prompter
	BinDir   string // where versioned compilers live, e.g. /usr/bin
	LinkDir  string // where the active links are kept, e.g. /usr/local/bin
}

// NewSelector creates a selector with the conventional system paths.
func NewSelector() *Selector {
	return &Selector{
		Prompter: ReadlinePrompter{},
		BinDir:   "/usr/bin",
		LinkDir:  "/usr/local/bin",
	}
}

// Select resolves the toolchain for the requested version. An
// unsupported or zero version triggers the interactive prompt, which
// re-asks until the operator supplies a valid value. This is the only
// blocking interactive step in the system.
func (s *Selector) Select(version int) (Toolchain, error) {
	for !supported(version) {
		answer, err := s.Prompter.Ask(fmt.Sprintf("Select GCC version %v: ", SupportedGCCVersions))
		if err != nil {
			return Toolchain{}, err
		}
		v, err := strconv.Atoi(answer)
		if err != nil {
			continue
		}
		version = v
	}

	tc := Toolchain{
		Version: version,
		CC:      filepath.Join(s.BinDir, fmt.Sprintf("gcc-%d", version)),
		CXX:     filepath.Join(s.BinDir, fmt.Sprintf("g++-%d", version)),
	}

	if err := s.updateLinks(tc); err != nil {
		return Toolchain{}, err
	}
	return tc, nil
}

// updateLinks points the active gcc/g++ links at the selected pair.
// Links are replaced only when they do not already point at the target.
func (s *Selector) updateLinks(tc Toolchain) error {
	if s.LinkDir == "" {
		return nil
	}
	for link, target := range map[string]string{
		filepath.Join(s.LinkDir, "gcc"): tc.CC,
		filepath.Join(s.LinkDir, "g++"): tc.CXX,
	} {
		if current, err := os.Readlink(link); err == nil && current == target {
			continue
		}
		if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", link, err)
		}
		if err := os.Symlink(target, link); err != nil {
			return fmt.Errorf("failed to link %s -> %s: %w", link, target, err)
		}
	}
	return nil
}

func supported(version int) bool {
	for _, v := range SupportedGCCVersions {
		if v == version {
			return true
		}
	}
	return false
}
