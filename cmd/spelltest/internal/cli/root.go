// Package cli provides command-line interface setup for spelltest.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sackosoft/sanctum/cmd/spelltest/internal/golden"
	"github.com/sackosoft/sanctum/cmd/spelltest/internal/normalize"
	"github.com/sackosoft/sanctum/cmd/spelltest/internal/subject"
	"github.com/sackosoft/sanctum/cmd/spelltest/shared"
	"github.com/sackosoft/sanctum/internal/logger"
)

// ErrSuiteFailed is returned when one or more cases failed.
var ErrSuiteFailed = errors.New("regression suite failed")

// App represents the spelltest CLI application
type App struct {
	Config *shared.Config
	viper  *viper.Viper

	test   bool
	freeze bool
}

// NewApp creates a new spelltest CLI application
func NewApp() *App {
	return &App{
		Config: shared.NewConfig(),
		viper:  viper.New(),
	}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spelltest <path-to-subject-executable> <path-to-test-suite-root> <--test|--freeze>",
		Short: "Golden file regression runner for the sanctum interpreter",
		Long: `spelltest runs every directory under the suite root that contains a spell.lua
through the subject as "<subject> cast <spell.lua> [--seed <seed.lua>]".

With --test, the exit code, stdout and stderr are checked against
exitcode.assert, stdout.assert and stderr.assert when those files exist.
With --freeze, the golden files are overwritten with the current output.`,
		Args: cobra.ExactArgs(2),
		RunE: app.runSuite,
	}

	rootCmd.Flags().BoolVar(&app.test, "test", false, "Verify output against the golden files")
	rootCmd.Flags().BoolVar(&app.freeze, "freeze", false, "Overwrite the golden files with the current output")
	rootCmd.MarkFlagsMutuallyExclusive("test", "freeze")
	rootCmd.MarkFlagsOneRequired("test", "freeze")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.Config.ConfigFile, "config", "", "Config file (default: <suite-root>/spelltest.yaml if present)")
	flags.Duration("timeout", shared.DefaultTimeout, "Per-case timeout, 0 waits indefinitely")
	flags.String("run", "", "Only run cases whose path relative to the suite root matches this glob")
	flags.String("report", shared.DefaultReportPath, "Write a YAML report of the run to this file")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.BoolP("verbose", "v", false, "Also list passing cases")
	flags.Bool("no-color", false, "Disable colored output")

	for _, name := range []string{"timeout", "run", "report", "log-level", "log-file", "verbose", "no-color"} {
		if err := app.viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}

	app.addVersionCommand(rootCmd)

	return rootCmd
}

func (app *App) action() golden.Action {
	if app.freeze {
		return golden.Freeze
	}
	return golden.Verify
}

func (app *App) runSuite(cmd *cobra.Command, args []string) error {
	// Arguments parsed; further errors are not usage errors.
	cmd.SilenceUsage = true

	cfg := app.Config
	cfg.SuiteRoot = args[1]

	// exec looks bare names up on PATH; run the file that was checked.
	subjectPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve subject %s: %w", args[0], err)
	}
	cfg.SubjectPath = subjectPath

	if err := shared.CheckSubject(cfg.SubjectPath); err != nil {
		return err
	}
	if err := shared.CheckSuiteRoot(cfg.SuiteRoot); err != nil {
		return err
	}

	if err := cfg.Load(app.viper); err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	normalizer, err := normalize.NewEngine(cfg.Normalize)
	if err != nil {
		return err
	}

	logger.Debug("Starting suite",
		"subject", cfg.SubjectPath,
		"root", cfg.SuiteRoot,
		"action", app.action(),
		"timeout", cfg.Timeout,
		"normalize_rules", normalizer.Len())

	invoker := subject.NewInvoker(cfg.Timeout, cfg.SubjectEnv)
	executor := golden.NewExecutor(cfg.SubjectPath, invoker, normalizer)
	reporter := golden.NewReporter(cmd.OutOrStdout(), cfg.Verbose, cfg.NoColor)
	runner := golden.NewSuiteRunner(executor, reporter, cfg.Filter)

	report, err := runner.Run(cmd.Context(), cfg.SuiteRoot, app.action())
	if err != nil {
		return err
	}

	if cfg.ReportPath != "" {
		if err := report.WriteYAML(cfg.ReportPath); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", cfg.ReportPath, "run_id", report.RunID)
	}

	if !report.Passed() {
		// The summary line has already been printed.
		cmd.SilenceErrors = true
		return fmt.Errorf("%w: %s", ErrSuiteFailed, report.Summary())
	}
	return nil
}
