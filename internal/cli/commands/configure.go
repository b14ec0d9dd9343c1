package commands

import (
	"github.com/spf13/cobra"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Run the CMake configure step without building",
		Long: `Run only the CMake configure step for the selected projects and
their dependencies. Useful after changing build parameters, or to
regenerate the compile databases without a full rebuild.

The GCC toolchain prompt fires here when no valid version is
configured.`,
		Example: `  # Reconfigure cudf as a Debug build
  rapidsdev configure --cudf -d`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
				cc.Renderer.Info("configuring %s", name)
				if err := cc.Orch.Configure(cmd.Context(), p); err != nil {
					cc.Renderer.Error("configure %s failed: %v", name, err)
					return err
				}
			}

			cc.Renderer.Success("configured %s", selectionLabel(closure))
			return nil
		},
	}
}
