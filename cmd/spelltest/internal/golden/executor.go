package golden

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sackosoft/sanctum/cmd/spelltest/internal/normalize"
	"github.com/sackosoft/sanctum/cmd/spelltest/internal/subject"
	"github.com/sackosoft/sanctum/internal/logger"
)

// CaseResult is the outcome of executing one case.
type CaseResult struct {
	Case       Case
	Action     Action
	Verdict    Verdict
	Invocation subject.Invocation
	// Diagnostics is operator-facing text explaining a failure.
	Diagnostics string
}

// Executor runs single cases against the subject.
type Executor struct {
	subjectPath string
	invoker     *subject.Invoker
	normalizer  *normalize.Engine
	log         *log.Logger
}

// NewExecutor creates an executor for the subject at subjectPath. The
// normalizer may be nil.
func NewExecutor(subjectPath string, invoker *subject.Invoker, normalizer *normalize.Engine) *Executor {
	return &Executor{
		subjectPath: subjectPath,
		invoker:     invoker,
		normalizer:  normalizer,
		log:         logger.NewStyledLogger("Executor"),
	}
}

// Execute runs tc once and verifies or freezes its output.
func (e *Executor) Execute(ctx context.Context, tc Case, action Action) CaseResult {
	result := CaseResult{Case: tc, Action: action}
	var diag strings.Builder
	store := tc.Store()

	// A missing or invalid exitcode.assert reads as the default code.
	expected, hasExitCodeFile, err := store.ReadExpectedExitCode()
	if err != nil {
		if action == Verify {
			result.Verdict.fail(ReasonGoldenFile)
			fmt.Fprintf(&diag, "FAIL: %v\n", err)
			result.Diagnostics = diag.String()
			return result
		}
		e.log.Warn("Replacing invalid exit code golden file", "case", tc.Name, "error", err)
	}

	argv := subject.Command(e.subjectPath, tc.Script, tc.Seed)
	inv, err := e.invoker.Invoke(ctx, argv, expected)
	if err != nil {
		result.Verdict.fail(ReasonInvocationError)
		fmt.Fprintf(&diag, "FAIL: %v\n", err)
		result.Diagnostics = diag.String()
		return result
	}
	result.Invocation = inv

	e.log.Debug("Case ran", "case", tc.Name, "exit", inv.Result.ExitCode, "outcome", inv.Outcome)

	if inv.Outcome == subject.Interrupted {
		result.Verdict.fail(ReasonInterrupted)
		diag.WriteString("FAIL: Interrupted, golden files left untouched\n")
		result.Diagnostics = diag.String()
		return result
	}

	switch action {
	case Verify:
		e.verify(&result, store, &diag)
	case Freeze:
		e.freeze(&result, store, hasExitCodeFile, &diag)
	default:
		panic(fmt.Sprintf("golden: unhandled action %v", action))
	}

	result.Diagnostics = diag.String()
	return result
}

func (e *Executor) verify(result *CaseResult, store *Store, diag *strings.Builder) {
	inv := result.Invocation

	switch inv.Outcome {
	case subject.TimedOut:
		result.Verdict.fail(ReasonTimeout)
		fmt.Fprintf(diag, "FAIL: Timed out after %s\n", e.invoker.Timeout)
		renderOutput(diag, "stdout", inv.Result.Stdout)
		renderOutput(diag, "stderr", inv.Result.Stderr)
		return
	case subject.ExitCodeMismatch:
		result.Verdict.fail(ReasonExitCodeMismatch)
		fmt.Fprintf(diag, "FAIL: Exited with exit code %d, expected %d\n", inv.Result.ExitCode, inv.Expected)
		renderOutput(diag, "stdout", inv.Result.Stdout)
		renderOutput(diag, "stderr", inv.Result.Stderr)
		return
	case subject.Matched, subject.Interrupted:
	}

	channels := []struct {
		name     string
		read     func() (string, bool, error)
		actual   []byte
		mismatch Reason
	}{
		{"stdout", store.ReadExpectedStdout, inv.Result.Stdout, ReasonStdoutMismatch},
		{"stderr", store.ReadExpectedStderr, inv.Result.Stderr, ReasonStderrMismatch},
	}

	for _, ch := range channels {
		expected, ok, err := ch.read()
		if err != nil {
			result.Verdict.fail(ReasonGoldenFile)
			fmt.Fprintf(diag, "FAIL: %v\n", err)
			continue
		}
		if !ok {
			continue
		}

		cmp := Compare(expected, ch.actual, e.normalizer)
		switch cmp.Kind {
		case Match:
			continue
		case Mismatch:
			result.Verdict.fail(ch.mismatch)
		case Undecodable:
			result.Verdict.fail(ReasonUndecodableOutput)
		}
		renderComparison(diag, ch.name, cmp)
	}
}

func (e *Executor) freeze(result *CaseResult, store *Store, hadExitCodeFile bool, diag *strings.Builder) {
	inv := result.Invocation

	if inv.Outcome == subject.TimedOut {
		result.Verdict.fail(ReasonTimeout)
		fmt.Fprintf(diag, "FAIL: Timed out after %s, golden files left untouched\n", e.invoker.Timeout)
		return
	}

	writes := []struct {
		name   string
		write  func([]byte) error
		actual []byte
	}{
		{"stdout", store.WriteStdout, inv.Result.Stdout},
		{"stderr", store.WriteStderr, inv.Result.Stderr},
	}

	for _, w := range writes {
		err := w.write(w.actual)
		switch {
		case err == nil:
		case errors.Is(err, ErrUndecodable):
			result.Verdict.fail(ReasonUndecodableOutput)
			renderComparison(diag, w.name, Comparison{Kind: Undecodable, Actual: fmt.Sprintf("%q", w.actual)})
		default:
			result.Verdict.fail(ReasonGoldenFile)
			fmt.Fprintf(diag, "FAIL: %v\n", err)
		}
	}

	// exitcode.assert is only created when the default would be wrong.
	code := inv.Result.ExitCode
	if hadExitCodeFile || code != subject.DefaultExitCode {
		if err := store.WriteExitCode(code); err != nil {
			result.Verdict.fail(ReasonGoldenFile)
			fmt.Fprintf(diag, "FAIL: %v\n", err)
		}
	}
}
