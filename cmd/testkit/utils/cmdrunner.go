package utils

import (
	"context"
	"os"
	"os/exec"
)

// RealCmdRunner executes commands using the operating system. The child
// inherits the standard descriptors of the process, including any capture
// installed on them.
type RealCmdRunner struct{}

// Run executes name with args and waits for it to exit. Cancelling ctx kills
// the child.
func (r *RealCmdRunner) Run(ctx context.Context, name string, args []string) error {
	command := exec.CommandContext(ctx, name, args...) // #nosec G204

	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	return command.Run()
}
