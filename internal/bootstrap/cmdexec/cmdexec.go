// Package cmdexec abstracts external command execution behind a narrow
// interface so the bootstrap state machine can run against a fake runner in
// tests without spawning real processes.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result carries the outcome of one command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external commands.
type Runner interface {
	// Run executes name with args and returns the captured result. A non-zero
	// exit is reported through Result.ExitCode, not through err; err is
	// reserved for failures to start the process at all.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// LookPath reports whether name resolves to an executable.
	LookPath(name string) bool
}

// Exec is the production Runner backed by os/exec.
type Exec struct{}

// NewExec returns the os/exec-backed runner.
func NewExec() *Exec {
	return &Exec{}
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// LookPath implements Runner.
func (e *Exec) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Output is a convenience wrapper returning trimmed stdout for commands that
// are expected to succeed.
func Output(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return strings.TrimSpace(res.Stdout), &ExitError{Command: name + " " + strings.Join(args, " "), Result: res}
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Command string
	Result  Result
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Result.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Result.Stdout)
	}
	if msg == "" {
		return fmt.Sprintf("%s: exit %d", e.Command, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s: exit %d: %s", e.Command, e.Result.ExitCode, msg)
}
