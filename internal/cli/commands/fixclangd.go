package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rapidslab/rapidsdev/internal/compiledb"
)

// NewFixClangdCommand creates the fix-clangd command.
func NewFixClangdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-clangd",
		Short: "Rewrite compile databases for clangd",
		Long: `Rewrite the CMake-generated compile databases of the selected
projects into a form clangd accepts, and publish each result at a
stable path inside the project's cpp directory.

The nvcc command lines CMake records confuse clang-based tooling; the
rewrite translates them to the equivalent clang invocations. Projects
without a compile database (not yet configured) are skipped.`,
		Example: `  # Refresh every project's database
  rapidsdev fix-clangd

  # Refresh just cudf
  rapidsdev fix-clangd --cudf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}

			closure := cc.Registry.Closure(cc.selection())
			fixed := 0
			for _, name := range closure {
				p, ok := cc.Registry.Get(name)
				if !ok {
					continue
				}
				err := cc.Orch.FixCompileDB(p)
				switch {
				case errors.Is(err, compiledb.ErrNoDatabase):
					cc.Renderer.Warning("%s: no compile database, configure first", name)
				case err != nil:
					cc.Renderer.Error("%s: %v", name, err)
					return err
				default:
					cc.Renderer.Success("%s: %s", name, p.CompileDBLink())
					fixed++
				}
			}

			if fixed == 0 {
				cc.Renderer.Warning("no compile databases found")
			}
			return nil
		},
	}
}
