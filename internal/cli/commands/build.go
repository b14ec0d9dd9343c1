package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/orchestrator"
)

// phaseFlags restrict an operation to a single layer.
type phaseFlags struct {
	cppOnly    bool
	pythonOnly bool
}

func (f *phaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.cppOnly, "cpp-only", false, "Only the native layer")
	cmd.Flags().BoolVar(&f.pythonOnly, "python-only", false, "Only the Python bindings")
	cmd.MarkFlagsMutuallyExclusive("cpp-only", "python-only")
}

func (f *phaseFlags) apply(orch *orchestrator.Orchestrator) {
	if f.cppOnly {
		orch.OnlyPhase(orchestrator.PhaseCPP)
	}
	if f.pythonOnly {
		orch.OnlyPhase(orchestrator.PhasePython)
	}
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	phases := &phaseFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the selected projects and their dependencies",
		Long: `Configure and build the selected projects in dependency order.

Each project's native layer is built first (CMake configure plus the
library targets), then the Python bindings are built in place. The
dependency closure is always included: building cuml also builds rmm
and cudf. With no project selected, everything is built.

The first failing step aborts the remainder.`,
		Example: `  # Build everything
  rapidsdev build

  # Build cudf (and rmm) in Debug with 8 jobs
  rapidsdev build --cudf -d -j 8

  # Build cuml plus its test targets
  rapidsdev build --cuml -t

  # Native layer only
  rapidsdev build --cudf --cpp-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, orchestrator.OpBuild, phases)
		},
	}
	phases.register(cmd)
	return cmd
}

// runOperation executes one orchestrated operation end to end. Shared
// by build, clean and lint.
func runOperation(cmd *cobra.Command, op orchestrator.Op, phases *phaseFlags) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if phases != nil {
		phases.apply(cc.Orch)
	}

	sel := cc.selection()
	cc.Renderer.Info("%s: %s (%s)", op, selectionLabel(sel), cc.Cfg.BuildType)

	start := time.Now()
	if err := cc.Orch.Execute(cmd.Context(), op, sel); err != nil {
		cc.Renderer.Error("%s failed: %v", op, err)
		return err
	}

	cc.Renderer.Success("%s completed in %s", op, time.Since(start).Round(time.Millisecond))
	return nil
}
