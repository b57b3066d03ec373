package main

import (
	"os"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/colors"
)

func main() {
	os.Exit(run(cmd.Execute))
}

// run executes the CLI and maps its result to an exit code.
func run(execute func() error) int {
	colors.StructuredInfo("startup", "main", "started", nil, "", nil)
	if err := execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}
