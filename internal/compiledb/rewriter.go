package compiledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDatabase reports a missing or unreadable input database. Callers
// treat it as "no data for this project" rather than a failure.
var ErrNoDatabase = errors.New("compile database not available")

// Rewriter applies the rule sequence to a compile database.
type Rewriter struct {
	rules []Rule
}

// NewRewriter creates a rewriter with the standard rule sequence.
func NewRewriter() *Rewriter {
	return &Rewriter{rules: Rules()}
}

// RewriteEntry returns a copy of the entry with its command rewritten.
func (rw *Rewriter) RewriteEntry(e Entry) Entry {
	e.Command = applyRules(e.Command, rw.rules)
	return e
}

// Rewrite reads the database at inputPath, rewrites every entry, and
// writes the result next to the input with a .clangd.json suffix. The
// original file is never mutated. Returns the output path.
func (rw *Rewriter) Rewrite(inputPath string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, inputPath)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", fmt.Errorf("%w: malformed %s: %v", ErrNoDatabase, inputPath, err)
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, rw.RewriteEntry(e))
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode rewritten database: %w", err)
	}

	outputPath := outputPathFor(inputPath)
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// outputPathFor derives the rewritten file's path from the input path.
func outputPathFor(inputPath string) string {
	ext := filepath.Ext(inputPath) // .json
	return strings.TrimSuffix(inputPath, ext) + ".clangd" + ext
}

// Publish points a stable symbolic link at the rewritten database so
// tools always find it at a fixed path. The link is replaced only when
// it does not already point at the target; the returned bool reports
// whether a filesystem write happened.
func Publish(outputPath, linkPath string) (bool, error) {
	if current, err := os.Readlink(linkPath); err == nil && current == outputPath {
		return false, nil
	}

	// Replace atomically: create a temporary link and rename over.
	tmp := linkPath + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to clear temporary link: %w", err)
	}
	if err := os.Symlink(outputPath, tmp); err != nil {
		return false, fmt.Errorf("failed to create link: %w", err)
	}
	if err := os.Rename(tmp, linkPath); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("failed to publish link: %w", err)
	}
	return true, nil
}
