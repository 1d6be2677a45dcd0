package golden

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sackosoft/sanctum/internal/logger"
)

// SuiteRunner runs every case under a suite root, one at a time.
type SuiteRunner struct {
	executor *Executor
	reporter *Reporter
	filter   string
	log      *log.Logger
}

// NewSuiteRunner creates a runner. filter is an optional doublestar pattern
// over case names.
func NewSuiteRunner(executor *Executor, reporter *Reporter, filter string) *SuiteRunner {
	return &SuiteRunner{
		executor: executor,
		reporter: reporter,
		filter:   filter,
		log:      logger.NewStyledLogger("Suite"),
	}
}

// Run discovers the cases under root and executes each with action. The
// returned error is only for failures that prevent the suite from running;
// case failures are recorded in the report. If ctx is cancelled the cases
// already run are reported along with ctx's error.
func (s *SuiteRunner) Run(ctx context.Context, root string, action Action) (*SuiteReport, error) {
	cases, err := Discover(root, s.filter)
	if err != nil {
		return nil, err
	}

	report := NewSuiteReport(root, action)
	s.log.Debug("Discovered cases", "root", root, "count", len(cases), "run_id", report.RunID)

	start := time.Now()
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		s.reporter.CaseStarted(tc, action)
		res := s.executor.Execute(ctx, tc, action)
		report.Add(res)
		s.reporter.CaseFinished(res)

		if !res.Verdict.Passed() {
			s.log.Debug("Case failed", "case", tc.Name, "verdict", res.Verdict.String())
		}
	}
	report.Duration = time.Since(start)

	s.reporter.Summary(report)
	return report, nil
}
