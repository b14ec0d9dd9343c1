package commands

import (
	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/orchestrator"
)

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	phases := &phaseFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts of the selected projects",
		Long: `Remove the native build trees and Python build artifacts of the
selected projects and their dependencies.

Cleaning follows the same ordering and dependency closure as build so
that a subsequent build starts from a known state.`,
		Example: `  # Clean everything
  rapidsdev clean

  # Clean cugraph and its dependencies
  rapidsdev clean --cugraph`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, orchestrator.OpClean, phases)
		},
	}
	phases.register(cmd)
	return cmd
}
