// Package shared provides common configuration and utilities for spelltest.
package shared

import (
	"time"

	"github.com/sackosoft/sanctum/cmd/spelltest/internal/normalize"
)

// Config holds the global configuration for spelltest
type Config struct {
	SubjectPath string
	SuiteRoot   string
	ConfigFile  string
	Timeout     time.Duration
	Filter      string
	ReportPath  string
	LogLevel    string
	LogFile     string
	Verbose     bool
	NoColor     bool
	Normalize   []normalize.RuleSpec
	SubjectEnv  []string
}

// Default configuration values
const (
	DefaultTimeout    = time.Duration(0)
	ConfigName        = "spelltest"
	EnvPrefix         = "SPELLTEST"
	SuiteEnvFile      = ".env"
	DefaultReportPath = ""
)

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Timeout:    DefaultTimeout,
		ReportPath: DefaultReportPath,
	}
}
