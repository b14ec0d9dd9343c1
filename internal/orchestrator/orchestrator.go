// Package orchestrator plans and executes build, clean and lint
// sequences across the RAPIDS projects, propagating upstream
// dependencies and aborting on the first failing step.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rapidslab/rapidsdev/internal/cli/config"
	"github.com/rapidslab/rapidsdev/internal/cmake"
	"github.com/rapidslab/rapidsdev/internal/project"
	"github.com/rapidslab/rapidsdev/internal/state"
)

// Op is an orchestrated operation.
type Op string

const (
	OpBuild Op = "build"
	OpClean Op = "clean"
	OpLint  Op = "lint"
)

// Phase is one layer of a project.
type Phase string

const (
	PhaseCPP    Phase = "cpp"
	PhasePython Phase = "python"
)

// Step is one planned unit of work.
type Step struct {
	Project project.Name
	Phase   Phase
}

// Exec abstracts external command execution so tests can record
// invocations without spawning processes. runner.Runner satisfies it.
type Exec interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Orchestrator coordinates per-project steps.
type Orchestrator struct {
	reg    *project.Registry
	cfg    *config.Config
	exec   Exec
	store  state.Store
	gcc    *cmake.Selector
	logger *slog.Logger

	// only restricts planning to a single phase. Empty means both.
	only Phase

	// toolchain is resolved once per invocation, on the first native
	// configure step (the selection may prompt).
	toolchain *cmake.Toolchain
}

// OnlyPhase restricts build and clean plans to one layer. Lint is
// unaffected; it only ever covers the binding layer.
func (o *Orchestrator) OnlyPhase(p Phase) {
	o.only = p
}

// Options wires an orchestrator.
type Options struct {
	Registry *project.Registry
	Config   *config.Config
	Exec     Exec
	Store    state.Store // nil disables run recording
	GCC      *cmake.Selector
	Logger   *slog.Logger
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gcc := opts.GCC
	if gcc == nil {
		gcc = cmake.NewSelector()
	}
	return &Orchestrator{
		reg:    opts.Registry,
		cfg:    opts.Config,
		exec:   opts.Exec,
		store:  opts.Store,
		gcc:    gcc,
		logger: logger,
	}
}

// Plan expands the selection to its dependency closure and lays out the
// step sequence: every project's native layer in build order, then
// every project's binding layer in the same order. Lint covers only the
// binding layer of projects that support it; unsupported projects are
// silently omitted.
func (o *Orchestrator) Plan(op Op, selection []project.Name) []Step {
	closure := o.reg.Closure(selection)

	if op == OpLint {
		var steps []Step
		for _, n := range closure {
			p, _ := o.reg.Get(n)
			if p != nil && p.LintSupported {
				steps = append(steps, Step{Project: n, Phase: PhasePython})
			}
		}
		return steps
	}

	steps := make([]Step, 0, 2*len(closure))
	if o.only != PhasePython {
		for _, n := range closure {
			steps = append(steps, Step{Project: n, Phase: PhaseCPP})
		}
	}
	if o.only != PhaseCPP {
		for _, n := range closure {
			steps = append(steps, Step{Project: n, Phase: PhasePython})
		}
	}
	return steps
}

// Execute runs the planned sequence. The first failing step aborts the
// remainder; side effects of completed steps are left as-is. Run
// recording failures are logged, never fatal.
func (o *Orchestrator) Execute(ctx context.Context, op Op, selection []project.Name) error {
	steps := o.Plan(op, selection)
	closure := o.reg.Closure(selection)

	names := make([]string, 0, len(closure))
	for _, n := range closure {
		names = append(names, string(n))
	}

	o.logger.Info("starting "+string(op),
		slog.String("projects", strings.Join(names, ",")),
		slog.String("build_type", o.cfg.BuildType))

	var run *state.Run
	if o.store != nil {
		var err error
		run, err = o.store.CreateRun(string(op), strings.Join(names, ","), o.cfg.BuildType)
		if err != nil {
			o.logger.Warn("failed to record run", slog.Any("error", err))
		}
	}

	for _, step := range steps {
		start := time.Now()
		err := o.runStep(ctx, op, step)
		o.recordStep(run, step, err, time.Since(start))

		if err != nil {
			stepErr := fmt.Errorf("%s %s/%s: %w", op, step.Project, step.Phase, err)
			o.completeRun(run, state.RunStatusFailed, stepErr.Error())
			o.logger.Error(string(op)+" aborted",
				slog.String("project", string(step.Project)),
				slog.String("phase", string(step.Phase)),
				slog.Any("error", err))
			return stepErr
		}
	}

	o.completeRun(run, state.RunStatusCompleted, "")
	o.logger.Info(string(op) + " completed")
	return nil
}

func (o *Orchestrator) runStep(ctx context.Context, op Op, step Step) error {
	p, ok := o.reg.Get(step.Project)
	if !ok {
		return fmt.Errorf("unknown project: %s", step.Project)
	}

	switch {
	case op == OpBuild && step.Phase == PhaseCPP:
		return o.buildCPP(ctx, p)
	case op == OpBuild && step.Phase == PhasePython:
		return o.buildPython(ctx, p)
	case op == OpClean && step.Phase == PhaseCPP:
		return o.cleanCPP(ctx, p)
	case op == OpClean && step.Phase == PhasePython:
		return o.cleanPython(ctx, p)
	case op == OpLint:
		return o.lintPython(ctx, p)
	}
	return fmt.Errorf("no step for %s %s/%s", op, step.Project, step.Phase)
}

func (o *Orchestrator) recordStep(run *state.Run, step Step, err error, elapsed time.Duration) {
	if o.store == nil || run == nil {
		return
	}
	status := state.StepStatusOK
	if err != nil {
		status = state.StepStatusFailed
	}
	if recErr := o.store.AddStep(run.ID, string(step.Project), string(step.Phase), status, elapsed); recErr != nil {
		o.logger.Warn("failed to record step", slog.Any("error", recErr))
	}
}

func (o *Orchestrator) completeRun(run *state.Run, status state.RunStatus, errMsg string) {
	if o.store == nil || run == nil {
		return
	}
	if err := o.store.CompleteRun(run.ID, status, errMsg); err != nil {
		o.logger.Warn("failed to complete run", slog.Any("error", err))
	}
}
