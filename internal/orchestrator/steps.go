package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/rapidslab/rapidsdev/internal/cmake"
	"github.com/rapidslab/rapidsdev/internal/compiledb"
	"github.com/rapidslab/rapidsdev/internal/project"
)

// resolveToolchain selects the GCC pair once per invocation. The first
// call may block on the interactive prompt.
func (o *Orchestrator) resolveToolchain() (cmake.Toolchain, error) {
	if o.toolchain != nil {
		return *o.toolchain, nil
	}
	tc, err := o.gcc.Select(o.cfg.GCCVersion)
	if err != nil {
		return cmake.Toolchain{}, fmt.Errorf("failed to select GCC toolchain: %w", err)
	}
	o.toolchain = &tc
	return tc, nil
}

// Configure runs the CMake configure step for one project and then
// refreshes the published compile database.
func (o *Orchestrator) Configure(ctx context.Context, p *project.Project) error {
	tc, err := o.resolveToolchain()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.BuildDir, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	args := append([]string{"-S", ".", "-B", "build"},
		cmake.Format(cmake.AssembleArgs(p, o.cfg, tc))...)

	o.logger.Debug("configuring", slog.String("project", string(p.Name)))
	if err := o.exec.Run(ctx, p.CPPDir, "cmake", args...); err != nil {
		return err
	}

	// Refresh the analysis-tool view of the new database. Missing or
	// malformed output just means no data for this project.
	if err := o.FixCompileDB(p); err != nil {
		o.logger.Warn("compile database not refreshed",
			slog.String("project", string(p.Name)),
			slog.Any("error", err))
	}
	return nil
}

// FixCompileDB rewrites the project's compile database and publishes it
// at the stable link path. A missing or malformed database is reported
// as compiledb.ErrNoDatabase.
func (o *Orchestrator) FixCompileDB(p *project.Project) error {
	rw := compiledb.NewRewriter()
	output, err := rw.Rewrite(p.CompileDBPath())
	if err != nil {
		return err
	}

	changed, err := compiledb.Publish(output, p.CompileDBLink())
	if err != nil {
		return err
	}
	if changed {
		o.logger.Debug("published compile database",
			slog.String("project", string(p.Name)),
			slog.String("link", p.CompileDBLink()))
	}
	return nil
}

// buildCPP configures and builds the native layer. Targets are built in
// declared order; cudf's string sub-library precedes the main library.
func (o *Orchestrator) buildCPP(ctx context.Context, p *project.Project) error {
	if err := o.Configure(ctx, p); err != nil {
		return err
	}

	for _, target := range o.cppTargets(p) {
		o.logger.Info("building target",
			slog.String("project", string(p.Name)),
			slog.String("target", target))
		err := o.exec.Run(ctx, p.CPPDir, "cmake",
			"--build", "build",
			"--target", target,
			"--parallel", strconv.Itoa(o.cfg.ParallelLevel))
		if err != nil {
			return err
		}
	}
	return nil
}

// cppTargets returns the native target list for a project. The
// dataframe library adds its test and benchmark targets only when those
// flags are enabled.
func (o *Orchestrator) cppTargets(p *project.Project) []string {
	targets := make([]string, 0, len(p.CPPTargets)+2)
	for _, t := range p.CPPTargets {
		targets = append(targets, string(t))
	}
	if p.Name == project.CUDF {
		if o.cfg.Tests {
			targets = append(targets, "cudf_tests")
		}
		if o.cfg.Bench {
			targets = append(targets, "cudf_benchmarks")
		}
	}
	return targets
}

// buildPython builds the binding layer in place.
func (o *Orchestrator) buildPython(ctx context.Context, p *project.Project) error {
	o.logger.Info("building bindings", slog.String("project", string(p.Name)))
	return o.exec.Run(ctx, p.PythonDir, "python", "setup.py", "build_ext", "--inplace")
}

// cleanCPP removes the native build tree. Clean of one project is
// independent of the others; ordering is kept only for log readability.
func (o *Orchestrator) cleanCPP(ctx context.Context, p *project.Project) error {
	o.logger.Info("cleaning native build", slog.String("project", string(p.Name)))
	return o.exec.Run(ctx, p.SourceRoot, "rm", "-rf", p.BuildDir)
}

// cleanPython removes binding-layer build artifacts.
func (o *Orchestrator) cleanPython(ctx context.Context, p *project.Project) error {
	o.logger.Info("cleaning bindings", slog.String("project", string(p.Name)))
	if err := o.exec.Run(ctx, p.PythonDir, "rm", "-rf", "build", "dist", ".pytest_cache"); err != nil {
		return err
	}
	return o.exec.Run(ctx, p.PythonDir, "find", ".", "-name", "*.so", "-delete")
}

// lintPython lints the binding layer of a supported project.
func (o *Orchestrator) lintPython(ctx context.Context, p *project.Project) error {
	o.logger.Info("linting", slog.String("project", string(p.Name)))
	return o.exec.Run(ctx, p.PythonDir, "flake8", ".")
}

// RunTests runs the binding-layer test suite of one project, passing
// residual arguments through to pytest unchanged. A missing test
// directory yields no data rather than a failure.
func (o *Orchestrator) RunTests(ctx context.Context, p *project.Project, pytestArgs []string) error {
	if _, err := os.Stat(p.PythonDir); errors.Is(err, os.ErrNotExist) {
		o.logger.Warn("no test directory, skipping",
			slog.String("project", string(p.Name)),
			slog.String("dir", p.PythonDir))
		return nil
	}

	args := make([]string, 0, len(pytestArgs)+1)
	if o.cfg.Legacy {
		args = append(args, "--run-legacy")
	}
	args = append(args, pytestArgs...)

	return o.exec.Run(ctx, p.PythonDir, "pytest", args...)
}
