package shared

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load fills c from v. Flags bound to v win over SPELLTEST_* environment
// variables, which win over spelltest.yaml. The config file is taken from
// ConfigFile when set, otherwise from the suite root if present.
func (c *Config) Load(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(c.SuiteRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c.Timeout = v.GetDuration("timeout")
	c.Filter = v.GetString("run")
	c.ReportPath = v.GetString("report")
	c.LogLevel = v.GetString("log-level")
	c.LogFile = v.GetString("log-file")
	c.Verbose = v.GetBool("verbose")
	c.NoColor = v.GetBool("no-color")

	if err := v.UnmarshalKey("normalize", &c.Normalize); err != nil {
		return fmt.Errorf("failed to parse normalize rules: %w", err)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	env, err := LoadSuiteEnv(c.SuiteRoot)
	if err != nil {
		return err
	}
	c.SubjectEnv = env

	return nil
}

// LoadSuiteEnv reads <root>/.env, if present, into KEY=VALUE entries sorted
// by key.
func LoadSuiteEnv(root string) ([]string, error) {
	path := filepath.Join(root, SuiteEnvFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite env file %s: %w", path, err)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, key := range keys {
		env = append(env, key+"="+values[key])
	}
	return env, nil
}
