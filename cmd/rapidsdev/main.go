// Command rapidsdev orchestrates RAPIDS development builds.
package main

import (
	"os"

	"github.com/rapidslab/rapidsdev/internal/cli"
	"github.com/rapidslab/rapidsdev/internal/runner"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Preserve the failing tool's exit status where one exists.
		os.Exit(runner.ExitStatus(err))
	}
}
