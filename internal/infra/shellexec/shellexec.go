// Package shellexec runs operator command lines through the host shell.
package shellexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// DefaultTimeout bounds one command.
const DefaultTimeout = 30 * time.Second

// DefaultShell returns the platform shell and its "run this string" flag.
func DefaultShell() (program, flag string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}

// Runner executes commands as Program Flag <command>.
type Runner struct {
	Program string
	Flag    string
	Timeout time.Duration
}

// New returns a Runner. Empty program or flag fall back to DefaultShell and
// a non-positive timeout to DefaultTimeout.
func New(program, flag string, timeout time.Duration) *Runner {
	defProgram, defFlag := DefaultShell()
	if program == "" {
		program = defProgram
	}
	if flag == "" {
		flag = defFlag
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Program: program, Flag: flag, Timeout: timeout}
}

// Run executes command and returns stdout followed by stderr. A non-zero exit
// status is not an error: the caller sees whatever the command printed.
// Failing to start, or exceeding the timeout, is.
func (r *Runner) Run(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Program, r.Flag, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return output, fmt.Errorf("command timed out after %s", r.Timeout)
		}
		return output, ctxErr
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return output, err
	}
	return output, nil
}
