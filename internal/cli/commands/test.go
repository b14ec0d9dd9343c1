package commands

import (
	"github.com/spf13/cobra"
)

// NewTestCommand creates the test command.
func NewTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test [-- pytest args]",
		Short: "Run the Python test suites of the selected projects",
		Long: `Run pytest over the binding layer of the selected projects and
their dependencies. Arguments after -- are passed to pytest unchanged.

Projects without a python directory are skipped with a warning. The
first failing suite stops the run.`,
		Example: `  # Test everything
  rapidsdev test

  # Test cudf, stopping at the first failure
  rapidsdev test --cudf -- -x

  # Run a subset by keyword
  rapidsdev test --cudf -- -k groupby`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			closure := cc.Registry.Closure(cc.selection())
			for _, name := range closure {
				p, ok := cc.Registry.Get(name)
				if !ok {
					continue
				}
				cc.Renderer.Info("testing %s", name)
				if err := cc.Orch.RunTests(cmd.Context(), p, args); err != nil {
					cc.Renderer.Error("tests for %s failed: %v", name, err)
					return err
				}
			}

			cc.Renderer.Success("tests passed for %s", selectionLabel(closure))
			return nil
		},
	}
}
