package commands

import (
	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/orchestrator"
)

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Lint the Python layer of the selected projects",
		Long: `Run the Python linter over the binding layer of the selected
projects. Only rmm and cudf carry lint configuration; other projects in
the selection are skipped silently.`,
		Example: `  # Lint rmm and cudf
  rapidsdev lint

  # Lint only cudf
  rapidsdev lint --cudf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, orchestrator.OpLint, nil)
		},
	}
}
