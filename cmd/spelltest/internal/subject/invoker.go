// Package subject runs the interpreter under test and judges its exit code.
package subject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sackosoft/sanctum/internal/logger"
)

// Fixed tokens of the command line the subject understands.
const (
	CastCommand = "cast"
	SeedFlag    = "--seed"
)

// DefaultExitCode is expected when a case does not say otherwise.
const DefaultExitCode = 0

// ExecutionResult is what one run of the subject produced.
type ExecutionResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Outcome classifies a run against the expected exit code.
type Outcome int

const (
	// Matched means the subject exited with the expected code.
	Matched Outcome = iota
	// ExitCodeMismatch means the subject exited with some other code.
	ExitCodeMismatch
	// TimedOut means the subject was killed after exceeding the timeout.
	TimedOut
	// Interrupted means the caller's context was cancelled mid-run.
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case ExitCodeMismatch:
		return "exit-code-mismatch"
	case TimedOut:
		return "timed-out"
	case Interrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Invocation is a tagged run result.
type Invocation struct {
	Outcome  Outcome
	Expected int
	Result   ExecutionResult
}

// Invoker spawns the subject.
type Invoker struct {
	// Timeout bounds each run. Zero waits indefinitely.
	Timeout time.Duration
	// Env is appended to the inherited environment.
	Env []string
}

// NewInvoker creates an invoker with the given timeout and extra environment.
func NewInvoker(timeout time.Duration, env []string) *Invoker {
	return &Invoker{Timeout: timeout, Env: env}
}

// Command builds the subject's argument vector for a script and optional seed.
func Command(subjectPath, scriptPath, seedPath string) []string {
	argv := []string{subjectPath, CastCommand, scriptPath}
	if seedPath != "" {
		argv = append(argv, SeedFlag, seedPath)
	}
	return argv
}

// Invoke runs argv to completion and compares its exit code with expected.
// An error is returned only when the process could not be run at all.
func (i *Invoker) Invoke(ctx context.Context, argv []string, expected int) (Invocation, error) {
	if len(argv) == 0 {
		return Invocation{}, errors.New("empty command")
	}

	runCtx := ctx
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), i.Env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Don't hang on grandchildren that inherited the pipes after a kill.
	cmd.WaitDelay = time.Second

	logger.Debug("Invoking subject", "argv", argv, "expected", expected)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: elapsed,
	}

	// The parent is checked first so a cancelled suite is never blamed on
	// the subject.
	if ctx.Err() != nil {
		result.ExitCode = -1
		return Invocation{Outcome: Interrupted, Expected: expected, Result: result}, nil
	}
	if i.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return Invocation{Outcome: TimedOut, Expected: expected, Result: result}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Invocation{}, fmt.Errorf("failed to run %s: %w", argv[0], err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	outcome := Matched
	if result.ExitCode != expected {
		outcome = ExitCodeMismatch
	}

	logger.Debug("Subject exited", "exit", result.ExitCode, "outcome", outcome, "duration", elapsed)

	return Invocation{Outcome: outcome, Expected: expected, Result: result}, nil
}
