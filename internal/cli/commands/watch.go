package commands

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/orchestrator"
	"github.com/rapidslab/rapidsdev/internal/project"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild a project whenever its sources change",
		Long: `Watch the source trees of the selected projects and rebuild the
changed project on every save, after a short debounce. Build trees and
hidden directories are ignored.

Stop with Ctrl-C.`,
		Example: `  # Rebuild cudf on change
  rapidsdev watch --cudf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			return runWatch(cmd, cc, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 500*time.Millisecond, "Quiet period before a rebuild starts")

	return cmd
}

func runWatch(cmd *cobra.Command, cc *CommandContext, opts *WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	closure := cc.Registry.Closure(cc.selection())

	// Maps watched roots back to the owning project.
	roots := make(map[string]project.Name)
	for _, name := range closure {
		p, ok := cc.Registry.Get(name)
		if !ok {
			continue
		}
		for _, dir := range []string{p.CPPDir, p.PythonDir} {
			if err := watchTree(watcher, dir); err != nil {
				cc.Logger.Warn("cannot watch directory",
					"dir", dir, "error", err)
				continue
			}
			roots[dir] = name
		}
	}
	if len(roots) == 0 {
		cc.Renderer.Warning("nothing to watch under %s", cc.Cfg.RapidsRoot)
		return nil
	}

	cc.Renderer.Info("watching %s", selectionLabel(closure))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	pending := make(map[project.Name]bool)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := ownerOf(roots, event.Name)
			if !ok || skipPath(event.Name) {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(opts.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			changed := orderedPending(pending)
			pending = make(map[project.Name]bool)
			for _, name := range changed {
				cc.Renderer.Info("change in %s, rebuilding", name)
				if err := cc.Orch.Execute(cmd.Context(), orchestrator.OpBuild, []project.Name{name}); err != nil {
					cc.Renderer.Error("rebuild failed: %v", err)
					continue
				}
				cc.Renderer.Success("%s rebuilt", name)
			}
		}
	}
}

// watchTree registers a directory and its subdirectories, skipping
// build output and hidden directories.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func skipDir(name string) bool {
	return name == "build" || name == "dist" || name == "__pycache__" ||
		strings.HasPrefix(name, ".")
}

func skipPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDir(part) && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// orderedPending returns the projects with queued changes in build
// order, so that a debounce window covering several projects rebuilds
// each of them, dependencies first.
func orderedPending(pending map[project.Name]bool) []project.Name {
	out := make([]project.Name, 0, len(pending))
	for _, n := range project.BuildOrder {
		if pending[n] {
			out = append(out, n)
		}
	}
	return out
}

func ownerOf(roots map[string]project.Name, path string) (project.Name, bool) {
	for root, name := range roots {
		if strings.HasPrefix(path, root+string(filepath.Separator)) || path == root {
			return name, true
		}
	}
	return "", false
}
