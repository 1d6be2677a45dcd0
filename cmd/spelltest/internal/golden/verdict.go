package golden

import (
	"fmt"
	"strings"
)

// Action selects what the executor does with a run's output.
type Action int

const (
	// Verify compares output against the golden files.
	Verify Action = iota
	// Freeze overwrites the golden files with the output.
	Freeze
)

func (a Action) String() string {
	switch a {
	case Verify:
		return "test"
	case Freeze:
		return "freeze"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Reason is why a case failed.
type Reason int

const (
	ReasonExitCodeMismatch Reason = iota + 1
	ReasonStdoutMismatch
	ReasonStderrMismatch
	ReasonUndecodableOutput
	ReasonTimeout
	ReasonInvocationError
	ReasonGoldenFile
	ReasonInterrupted
)

func (r Reason) String() string {
	switch r {
	case ReasonExitCodeMismatch:
		return "exit code mismatch"
	case ReasonStdoutMismatch:
		return "stdout mismatch"
	case ReasonStderrMismatch:
		return "stderr mismatch"
	case ReasonUndecodableOutput:
		return "undecodable output"
	case ReasonTimeout:
		return "timeout"
	case ReasonInvocationError:
		return "invocation error"
	case ReasonGoldenFile:
		return "golden file error"
	case ReasonInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Verdict is the outcome of one case. No reasons means it passed.
type Verdict struct {
	Reasons []Reason
}

// Passed reports whether the case passed.
func (v Verdict) Passed() bool {
	return len(v.Reasons) == 0
}

// Has reports whether r is among the failure reasons.
func (v Verdict) Has(r Reason) bool {
	for _, reason := range v.Reasons {
		if reason == r {
			return true
		}
	}
	return false
}

func (v *Verdict) fail(r Reason) {
	if !v.Has(r) {
		v.Reasons = append(v.Reasons, r)
	}
}

func (v Verdict) String() string {
	if v.Passed() {
		return "passed"
	}
	parts := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		parts[i] = r.String()
	}
	return "failed: " + strings.Join(parts, ", ")
}
