package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent orchestration runs",
		Long: `List recent build, clean and lint runs recorded in the local state
database. Pass a run ID to show its per-step breakdown.`,
		Example: `  # Last 20 runs
  rapidsdev history

  # Step timings of one run
  rapidsdev history 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContextWithoutRootCheck(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if cc.Store == nil {
				cc.Renderer.Warning("no run history available")
				return nil
			}

			if len(args) == 1 {
				return showSteps(cc, args[0])
			}
			return showRuns(cc, opts.Limit)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func showRuns(cc *CommandContext, limit int) error {
	runs, err := cc.Store.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cc.Renderer.Info("no runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Operation,
			r.Projects,
			r.BuildType,
			string(r.Status),
			r.StartedAt.Local().Format(time.DateTime),
			runDuration(r),
		})
	}
	cc.Renderer.Table(
		[]string{"Run", "Op", "Projects", "Type", "Status", "Started", "Duration"},
		rows)
	return nil
}

func showSteps(cc *CommandContext, runID string) error {
	steps, err := cc.Store.GetSteps(runID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}
	if len(steps) == 0 {
		cc.Renderer.Warning("no steps recorded for run %s", runID)
		return nil
	}

	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{
			s.Project,
			s.Phase,
			string(s.Status),
			(time.Duration(s.DurationMS) * time.Millisecond).String(),
		})
	}
	cc.Renderer.Table([]string{"Project", "Phase", "Status", "Duration"}, rows)
	return nil
}

func runDuration(r *state.Run) string {
	if r.CompletedAt == nil {
		return "-"
	}
	return r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}
