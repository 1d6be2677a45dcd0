package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sackosoft/sanctum/cmd/spelltest/shared"
	"github.com/sackosoft/sanctum/internal/testutils"
	"github.com/sackosoft/sanctum/internal/version"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewApp().CreateRootCommand()
	cmd.SetArgs(append(args, "--no-color"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	return lines[len(lines)-1]
}

const caseAPasses = `
-- caseA/spell.lua --
printf 'hi\n'
-- caseA/stdout.assert --
hi
`

func TestRoot_Usage(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	subjectPath := helpers.FakeSubject(t)
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "missing suite root", args: []string{subjectPath, "--test"}},
		{name: "too many arguments", args: []string{subjectPath, root, "extra", "--test"}},
		{name: "missing action", args: []string{subjectPath, root}},
		{name: "both actions", args: []string{subjectPath, root, "--test", "--freeze"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.Contains(t, stdout+stderr, "Usage:")
			assert.NotContains(t, stdout, "Running regression")
		})
	}
}

func TestRoot_FilesystemErrors(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	subjectPath := helpers.FakeSubject(t)
	root := helpers.WriteSuite(t, caseAPasses)
	notExecutable := filepath.Join(root, "caseA", "stdout.assert")

	t.Run("subject not executable", func(t *testing.T) {
		stdout, _, err := execute(t, notExecutable, root, "--test")
		assert.ErrorIs(t, err, shared.ErrNotExecutable)
		assert.NotContains(t, stdout, "Running regression")
	})

	t.Run("suite root not a directory", func(t *testing.T) {
		stdout, _, err := execute(t, subjectPath, notExecutable, "--test")
		assert.ErrorIs(t, err, shared.ErrNotDirectory)
		assert.NotContains(t, stdout, "Running regression")
	})
}

func TestRoot_TestPasses(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, caseAPasses)

	stdout, _, err := execute(t, helpers.FakeSubject(t), root, "--test")
	require.NoError(t, err)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_RelativeSubjectName(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, caseAPasses)
	subjectPath := helpers.FakeSubject(t)

	// A bare name must run ./sanctum, not a PATH lookup.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Dir(subjectPath)))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PATH", t.TempDir())

	stdout, _, err := execute(t, filepath.Base(subjectPath), root, "--test")
	require.NoError(t, err, stdout)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_TestFails(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- caseA/spell.lua --
printf 'hi\n'
-- caseA/stdout.assert --
bye
`)

	stdout, stderr, err := execute(t, helpers.FakeSubject(t), root, "--test")
	assert.True(t, errors.Is(err, ErrSuiteFailed))
	assert.Equal(t, "FAILED 1 / 1", lastLine(stdout))
	assert.Contains(t, stdout, " > | bye")
	assert.Contains(t, stdout, " ? | hi")
	assert.NotContains(t, stdout+stderr, "Usage:")
}

func TestRoot_ExpectedExitCode(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- caseB/spell.lua --
printf 'done\n'
exit 2
-- caseB/exitcode.assert --
2
-- caseB/stdout.assert --
done
`)

	stdout, _, err := execute(t, helpers.FakeSubject(t), root, "--test")
	require.NoError(t, err)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_EmptySuite(t *testing.T) {
	helpers := testutils.NewFileHelpers()

	stdout, _, err := execute(t, helpers.FakeSubject(t), t.TempDir(), "--test")
	require.NoError(t, err)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_FreezeThenTest(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- caseA/spell.lua --
printf 'hi\n'
printf 'note\n' >&2
`)
	subjectPath := helpers.FakeSubject(t)

	stdout, _, err := execute(t, subjectPath, root, "--freeze")
	require.NoError(t, err)
	assert.Equal(t, "PASS", lastLine(stdout))
	assert.Equal(t, "hi\n", helpers.ReadFile(t, filepath.Join(root, "caseA", "stdout.assert")))
	assert.Equal(t, "note\n", helpers.ReadFile(t, filepath.Join(root, "caseA", "stderr.assert")))

	stdout, _, err = execute(t, subjectPath, root, "--test")
	require.NoError(t, err)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_SuiteConfigAndEnv(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- spelltest.yaml --
normalize:
  - name: address
    pattern: "0x[0-9a-f]+"
    replace: "0xADDR"
-- .env --
SPELL_GREETING=hello
-- caseA/spell.lua --
printf '%s 0xbeef\n' "$SPELL_GREETING"
-- caseA/stdout.assert --
hello 0x1234
`)

	stdout, _, err := execute(t, helpers.FakeSubject(t), root, "--test")
	require.NoError(t, err, stdout)
	assert.Equal(t, "PASS", lastLine(stdout))
}

func TestRoot_RunFilterAndReport(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- keep/spell.lua --
printf 'hi\n'
-- keep/stdout.assert --
hi
-- skip/spell.lua --
exit 1
`)
	reportPath := filepath.Join(t.TempDir(), "report.yaml")

	stdout, _, err := execute(t, helpers.FakeSubject(t), root, "--test", "--run", "keep", "--report", reportPath)
	require.NoError(t, err, stdout)
	assert.Equal(t, "PASS", lastLine(stdout))
	assert.NotContains(t, stdout, "skip")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "attempts: 1")
	assert.Contains(t, string(data), "name: keep")
}

func TestRoot_Timeout(t *testing.T) {
	helpers := testutils.NewFileHelpers()
	root := helpers.WriteSuite(t, `
-- hangs/spell.lua --
exec sleep 5
`)

	stdout, _, err := execute(t, helpers.FakeSubject(t), root, "--test", "--timeout", "100ms")
	assert.ErrorIs(t, err, ErrSuiteFailed)
	assert.Contains(t, stdout, "timeout")
	assert.Equal(t, "FAILED 1 / 1", lastLine(stdout))
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewApp().CreateRootCommand()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&stdout)

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "spelltest v"), stdout.String())
}

func TestVersionCommand_BuildKind(t *testing.T) {
	oldVersion, oldCommit, oldDate := version.Version, version.GitCommit, version.BuildDate
	t.Cleanup(func() { version.SetBuildInfo(oldVersion, oldCommit, oldDate) })

	tests := []struct {
		name     string
		commit   string
		date     string
		expected string
	}{
		{name: "development", commit: "unknown", date: "unknown", expected: "spelltest v1.0.0 (development build)\n"},
		{name: "release", commit: "abcdef0123", date: "2026-01-02", expected: "spelltest v1.0.0, commit abcdef0, built 2026-01-02\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version.SetBuildInfo("1.0.0", tt.commit, tt.date)
			stdout, _, err := execute(t, "version")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "spelltest v"+version.GetVersion()+"\n", stdout)
}
