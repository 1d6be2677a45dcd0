package golden

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sackosoft/sanctum/cmd/spelltest/internal/normalize"
)

// ErrUndecodable is returned when captured output is not valid UTF-8.
var ErrUndecodable = errors.New("output is not valid UTF-8")

// Decode returns raw as text, or ErrUndecodable.
func Decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w (%d bytes)", ErrUndecodable, len(raw))
	}
	return string(raw), nil
}

// ComparisonKind is the outcome of comparing one output channel.
type ComparisonKind int

const (
	// Match means expected and actual agree line for line.
	Match ComparisonKind = iota
	// Mismatch means the lines differ.
	Mismatch
	// Undecodable means the actual bytes were not valid UTF-8.
	Undecodable
)

func (k ComparisonKind) String() string {
	switch k {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Undecodable:
		return "undecodable"
	default:
		return fmt.Sprintf("ComparisonKind(%d)", int(k))
	}
}

// Comparison holds both renderings so a mismatch can be shown to an operator.
// For Undecodable, Actual is a quoted rendering of the raw bytes.
type Comparison struct {
	Kind     ComparisonKind
	Expected string
	Actual   string
}

// Compare decodes actual and compares it with expected line by line. Lines
// keep their terminators, so a missing trailing newline is a difference.
// The normalizer, if any, is applied to both sides first.
func Compare(expected string, actual []byte, normalizer *normalize.Engine) Comparison {
	text, err := Decode(actual)
	if err != nil {
		return Comparison{Kind: Undecodable, Expected: expected, Actual: fmt.Sprintf("%q", actual)}
	}

	if linesEqual(normalizer.Apply(expected), normalizer.Apply(text)) {
		return Comparison{Kind: Match, Expected: expected, Actual: text}
	}
	return Comparison{Kind: Mismatch, Expected: expected, Actual: text}
}

func linesEqual(expected, actual string) bool {
	want := strings.SplitAfter(expected, "\n")
	got := strings.SplitAfter(actual, "\n")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
