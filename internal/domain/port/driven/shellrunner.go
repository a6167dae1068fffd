package driven

import "context"

// ShellOutput is the captured result of a finished shell command.
type ShellOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ShellRunner defines the driven port for running a command line through the
// host shell. A non-zero exit is not an error. When ctx expires the command
// and everything it spawned must be killed before Run returns, and the
// returned error must satisfy errors.Is(err, context.DeadlineExceeded).
type ShellRunner interface {
	Run(ctx context.Context, command string) (ShellOutput, error)
}
