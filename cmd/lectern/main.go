// Command lectern is a terminal PDF reader with synchronized windows.
package main

import (
	"fmt"

	"github.com/bnema/lectern/internal/cli/cmd"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	enableCrashForensics()

	cmd.SetVersion(fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate))
	cmd.Execute()
}
