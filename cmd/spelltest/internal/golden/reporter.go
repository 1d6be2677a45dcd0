package golden

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Reporter writes operator-facing progress and results.
type Reporter struct {
	out     io.Writer
	verbose bool
	pass    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
}

// NewReporter creates a reporter writing to out. Colors are used only when
// out is a terminal and noColor is false.
func NewReporter(out io.Writer, verbose, noColor bool) *Reporter {
	renderer := lipgloss.NewRenderer(out)
	if noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		out:     out,
		verbose: verbose,
		pass:    renderer.NewStyle().Foreground(lipgloss.Color("42")),
		fail:    renderer.NewStyle().Foreground(lipgloss.Color("196")),
		dim:     renderer.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// CaseStarted announces a case before it runs.
func (r *Reporter) CaseStarted(tc Case, action Action) {
	fmt.Fprintf(r.out, "Running regression %s on '%s'\n", action, tc.Dir)
}

// CaseFinished reports a case's verdict and, for failures, its diagnostics.
func (r *Reporter) CaseFinished(res CaseResult) {
	if res.Verdict.Passed() {
		if r.verbose {
			fmt.Fprintln(r.out, r.dim.Render(fmt.Sprintf("ok %s (%s)", res.Case.Name, res.Invocation.Result.Duration)))
		}
		return
	}

	fmt.Fprintln(r.out, r.fail.Render(fmt.Sprintf("FAIL %s: %s", res.Case.Name, res.Verdict)))
	if res.Diagnostics != "" {
		fmt.Fprint(r.out, res.Diagnostics)
	}
	fmt.Fprintln(r.out)
}

// Summary writes the final PASS or FAILED line.
func (r *Reporter) Summary(report *SuiteReport) {
	if report.Passed() {
		fmt.Fprintln(r.out, r.pass.Render(report.Summary()))
		return
	}
	fmt.Fprintln(r.out, r.fail.Render(report.Summary()))
}
