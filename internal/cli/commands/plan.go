package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/orchestrator"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var opArg string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the step sequence without executing it",
		Long: `Print the steps an operation would execute for the current
selection: the dependency closure, the per-project phases, and their
order. Nothing is run.`,
		Example: `  # What would a full build do?
  rapidsdev plan

  # What does building cuml pull in?
  rapidsdev plan --cuml

  # Plan a lint instead
  rapidsdev plan --op lint`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}

			op := orchestrator.Op(opArg)
			switch op {
			case orchestrator.OpBuild, orchestrator.OpClean, orchestrator.OpLint:
			default:
				return fmt.Errorf("unknown operation %q (build, clean or lint)", opArg)
			}

			sel := cc.selection()
			steps := cc.Orch.Plan(op, sel)

			cc.Renderer.Header(fmt.Sprintf("%s plan for %s", op, selectionLabel(sel)))
			if len(steps) == 0 {
				cc.Renderer.Warning("nothing to do")
				return nil
			}

			rows := make([][]string, 0, len(steps))
			for i, s := range steps {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					string(s.Project),
					string(s.Phase),
				})
			}
			cc.Renderer.Table([]string{"#", "Project", "Phase"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&opArg, "op", "build", "Operation to plan (build, clean or lint)")

	return cmd
}
