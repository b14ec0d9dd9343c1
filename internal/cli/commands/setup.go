package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/cli/config"
	"github.com/rapidslab/rapidsdev/internal/cli/output"
	"github.com/rapidslab/rapidsdev/internal/cmake"
	"github.com/rapidslab/rapidsdev/internal/orchestrator"
	"github.com/rapidslab/rapidsdev/internal/project"
	"github.com/rapidslab/rapidsdev/internal/runner"
	"github.com/rapidslab/rapidsdev/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *project.Registry
	Runner   *runner.Runner
	Renderer *output.Renderer
	Store    *state.SQLiteStore
	Orch     *orchestrator.Orchestrator
}

// NewCommandContext wires the full dependency set for an orchestrated
// command and verifies the checkout root exists. Returns the context
// and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, cleanup, err := NewCommandContextWithoutRootCheck(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cc.Cfg.ValidateRoot(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutRootCheck wires the same dependency set but
// skips the checkout root check. Commands that only read recorded
// state, such as history, work without a checkout present.
func NewCommandContextWithoutRootCheck(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, err := newCommandContext(cmd)
	if err != nil {
		return nil, nil, err
	}

	// Run history is advisory. A store that cannot be opened degrades
	// to no recording rather than blocking the build.
	store := state.NewSQLiteStore(cc.Logger)
	if err := openStore(store, cc.Cfg.StatePath); err != nil {
		cc.Logger.Warn("run history disabled", slog.Any("error", err))
		store = nil
	}
	cc.Store = store
	cc.Orch = newOrchestrator(cc, store)

	cleanup := func() {
		_ = store.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore wires dependencies for commands that
// never record run history, such as plan and doctor.
func NewCommandContextWithoutStore(cmd *cobra.Command) (*CommandContext, error) {
	cc, err := newCommandContext(cmd)
	if err != nil {
		return nil, err
	}
	cc.Orch = newOrchestrator(cc, nil)
	return cc, nil
}

func newCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	reg, err := project.NewRegistry(cfg.RapidsRoot)
	if err != nil {
		return nil, err
	}

	run := runner.New(&runner.Options{
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Container: cfg.Container,
		Logger:    logger,
	})

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Registry: reg,
		Runner:   run,
		Renderer: r,
	}, nil
}

func newOrchestrator(cc *CommandContext, store state.Store) *orchestrator.Orchestrator {
	var exec orchestrator.Exec = cc.Runner
	// On an interactive terminal, hide the tool output behind a spinner
	// unless the operator asked for it.
	if cc.Renderer.Styled() && !cc.Cfg.Verbose {
		exec = spinnerExec{r: cc.Runner}
	}

	return orchestrator.New(orchestrator.Options{
		Registry: cc.Registry,
		Config:   cc.Cfg,
		Exec:     exec,
		Store:    store,
		GCC:      cmake.NewSelector(),
		Logger:   cc.Logger,
	})
}

// spinnerExec runs each external command behind a progress spinner.
type spinnerExec struct {
	r *runner.Runner
}

func (s spinnerExec) Run(ctx context.Context, dir, name string, args ...string) error {
	msg := name
	if len(args) > 0 {
		msg = name + " " + args[0]
	}
	return s.r.RunWithSpinner(ctx, msg, dir, name, args...)
}

func openStore(store *state.SQLiteStore, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return store.Open(path)
}

// getConfig returns the current configuration, falling back to
// environment variables when the resolver has not run (direct command
// construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		RapidsRoot:    getEnvOrDefault("RAPIDS_RAPIDS_ROOT", config.DefaultRapidsRoot),
		BuildType:     getEnvOrDefault("RAPIDS_BUILD_TYPE", config.DefaultBuildType),
		ParallelLevel: config.DefaultParallelLevel,
		StatePath:     filepath.Join(config.DefaultRapidsRoot, config.DefaultStateFile),
		Verbose:       os.Getenv("RAPIDS_VERBOSE") == "true",
		OutputFormat:  getEnvOrDefault("RAPIDS_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// selection returns the projects named on the command line, or nil for
// "everything".
func (cc *CommandContext) selection() []project.Name {
	return cc.Cfg.Selection()
}

// selectionLabel renders a selection for user-facing messages.
func selectionLabel(sel []project.Name) string {
	if len(sel) == 0 {
		return "all projects"
	}
	parts := make([]string, 0, len(sel))
	for _, n := range sel {
		parts = append(parts, string(n))
	}
	return strings.Join(parts, ", ")
}
