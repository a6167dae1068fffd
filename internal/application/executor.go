package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// DefaultCommandTimeout bounds a single local command.
const DefaultCommandTimeout = 30 * time.Second

const (
	errUnauthorizedCommand = "Unauthorized command"
	errCommandTimeout      = "timeout"
	msgCommandNotAllowed   = "command not allowed"
)

// LocalExecutor runs allow-listed commands on this host.
type LocalExecutor struct {
	authorizer CommandAuthorizer
	runner     driven.ShellRunner
	timeout    time.Duration
	logger     *slog.Logger
}

// NewLocalExecutor creates a LocalExecutor. A non-positive timeout selects
// DefaultCommandTimeout.
func NewLocalExecutor(authorizer CommandAuthorizer, runner driven.ShellRunner, timeout time.Duration, logger *slog.Logger) *LocalExecutor {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &LocalExecutor{
		authorizer: authorizer,
		runner:     runner,
		timeout:    timeout,
		logger:     logger,
	}
}

// Run executes command if the authorizer allows it. All outcomes, including
// rejection, timeout and spawn failure, are reported in the result.
func (e *LocalExecutor) Run(ctx context.Context, command string) model.CommandResult {
	if !e.authorizer.IsAllowed(command) {
		e.logger.Warn("command rejected", "command", command)
		return model.CommandResult{
			Success: false,
			Output:  msgCommandNotAllowed,
			Error:   errUnauthorizedCommand,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	out, err := e.runner.Run(runCtx, command)
	duration := time.Since(start).Round(time.Millisecond)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.logger.Warn("command timed out", "command", command, "timeout", e.timeout)
		return model.CommandResult{Success: false, Error: errCommandTimeout, Code: -1}
	case err != nil:
		e.logger.Error("command failed to start", "command", command, "error", err)
		return model.CommandResult{Success: false, Error: err.Error(), Code: -1}
	}

	e.logger.Info("command executed",
		"command", command,
		"exit_code", out.ExitCode,
		"duration", duration,
	)

	return model.CommandResult{
		Success: out.ExitCode == 0,
		Output:  out.Stdout,
		Error:   out.Stderr,
		Code:    out.ExitCode,
	}
}
