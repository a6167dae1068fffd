// Package shell runs command lines through the host's /bin/sh.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ShellRunner = (*Runner)(nil)

// waitDelay bounds how long Run waits for output pipes after the process
// group has been killed.
const waitDelay = 500 * time.Millisecond

// Runner executes commands with `sh -c`.
type Runner struct {
	shell string
}

// NewRunner creates a Runner using /bin/sh.
func NewRunner() *Runner {
	return &Runner{shell: "/bin/sh"}
}

// Run executes command and captures its output. When ctx ends first, the
// shell and every process it started are killed.
func (r *Runner) Run(ctx context.Context, command string) (driven.ShellOutput, error) {
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := driven.ShellOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		out.ExitCode = -1
		return out, fmt.Errorf("run %q: %w", command, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.ExitCode = 0
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		out.ExitCode = -1
		return out, fmt.Errorf("run %q: %w", command, err)
	}
	return out, nil
}
