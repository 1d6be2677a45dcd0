package golden

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CaseRecord is the persisted summary of one case.
type CaseRecord struct {
	Name     string        `yaml:"name"`
	Dir      string        `yaml:"dir"`
	Passed   bool          `yaml:"passed"`
	Reasons  []string      `yaml:"reasons,omitempty"`
	ExitCode int           `yaml:"exit_code"`
	Duration time.Duration `yaml:"duration"`
}

// SuiteReport tallies a suite run.
type SuiteReport struct {
	RunID     string        `yaml:"run_id"`
	Action    string        `yaml:"action"`
	Root      string        `yaml:"root"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Attempts  int           `yaml:"attempts"`
	Failures  int           `yaml:"failures"`
	Cases     []CaseRecord  `yaml:"cases"`
}

// NewSuiteReport starts an empty report for a run.
func NewSuiteReport(root string, action Action) *SuiteReport {
	return &SuiteReport{
		RunID:     uuid.NewString(),
		Action:    action.String(),
		Root:      root,
		StartedAt: time.Now().UTC(),
		Cases:     []CaseRecord{},
	}
}

// Add records one case result.
func (r *SuiteReport) Add(res CaseResult) {
	r.Attempts++
	if !res.Verdict.Passed() {
		r.Failures++
	}

	reasons := make([]string, 0, len(res.Verdict.Reasons))
	for _, reason := range res.Verdict.Reasons {
		reasons = append(reasons, reason.String())
	}

	r.Cases = append(r.Cases, CaseRecord{
		Name:     res.Case.Name,
		Dir:      res.Case.Dir,
		Passed:   res.Verdict.Passed(),
		Reasons:  reasons,
		ExitCode: res.Invocation.Result.ExitCode,
		Duration: res.Invocation.Result.Duration,
	})
}

// Passed reports whether every attempted case passed.
func (r *SuiteReport) Passed() bool {
	return r.Failures == 0
}

// Summary is the final status line.
func (r *SuiteReport) Summary() string {
	if r.Passed() {
		return "PASS"
	}
	return fmt.Sprintf("FAILED %d / %d", r.Failures, r.Attempts)
}

// WriteYAML writes the report to path.
func (r *SuiteReport) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
