package golden

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Prefixes used when showing golden and captured output side by side.
const (
	ExpectedPrefix = " > | "
	ActualPrefix   = " ? | "
	OutputPrefix   = "  "
)

// Indent prefixes every line of text. A trailing newline does not produce an
// extra prefixed empty line.
func Indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// LineDiff renders a line-level diff of expected against actual, with "-"
// for lines only in expected and "+" for lines only in actual.
func LineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, diff := range diffs {
		marker := "  "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			marker = "- "
		case diffmatchpatch.DiffInsert:
			marker = "+ "
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			if strings.HasSuffix(line, "\n") {
				fmt.Fprintf(&out, "%s%s", marker, line)
			} else {
				fmt.Fprintf(&out, "%s%s\\ no newline at end\n", marker, line)
			}
		}
	}
	return out.String()
}

func renderComparison(b *strings.Builder, channel string, cmp Comparison) {
	switch cmp.Kind {
	case Match:
		return
	case Undecodable:
		fmt.Fprintf(b, "FAIL: Unable to decode %s as UTF-8:\n", channel)
		b.WriteString(Indent(cmp.Actual, OutputPrefix))
	case Mismatch:
		fmt.Fprintf(b, "FAIL: %s does not match expected\n", channel)
		b.WriteString("Diff:\n")
		b.WriteString(LineDiff(cmp.Expected, cmp.Actual))
		b.WriteString("Expected:\n")
		b.WriteString(Indent(cmp.Expected, ExpectedPrefix))
		b.WriteString("Actual:\n")
		b.WriteString(Indent(cmp.Actual, ActualPrefix))
	}
}

// renderOutput shows captured output that was not compared. Undecodable
// bytes are quoted rather than written raw to the terminal.
func renderOutput(b *strings.Builder, channel string, raw []byte) {
	fmt.Fprintf(b, "%s:\n", channel)
	text, err := Decode(raw)
	if err != nil {
		text = fmt.Sprintf("%q\n", raw)
	}
	b.WriteString(Indent(text, OutputPrefix))
}
