// Package golden provides golden file regression testing for the subject.
package golden

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sackosoft/sanctum/cmd/spelltest/shared"
	"github.com/sackosoft/sanctum/internal/logger"
)

// Files that make up a case directory.
const (
	ScriptFile   = "spell.lua"
	SeedFile     = "seed.lua"
	StdoutFile   = "stdout.assert"
	StderrFile   = "stderr.assert"
	ExitCodeFile = "exitcode.assert"
)

// Case is one test case directory.
type Case struct {
	// Dir is the absolute case directory.
	Dir string
	// Name is Dir relative to the suite root, slash separated.
	Name string
	// Script is the absolute path of spell.lua.
	Script string
	// Seed is the absolute path of seed.lua, or empty if the case has none.
	Seed string
}

// Store returns the golden file store for the case.
func (c Case) Store() *Store {
	return NewStore(c.Dir)
}

// Discover walks root and returns every directory containing spell.lua, in
// walk order. When filter is non-empty only cases whose Name matches the
// doublestar pattern are returned.
func Discover(root, filter string) ([]Case, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve suite root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("suite root %s: %w", root, shared.ErrNotDirectory)
	}

	if filter != "" && !doublestar.ValidatePattern(filter) {
		return nil, fmt.Errorf("invalid case filter %q: %w", filter, doublestar.ErrBadPattern)
	}

	var cases []Case
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// One unreadable directory should not sink the whole suite.
			if d != nil && d.IsDir() && path != absRoot {
				logger.Warn("Skipping unreadable directory", "path", path, "error", walkErr)
				return fs.SkipDir
			}
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}

		script := filepath.Join(path, ScriptFile)
		if !isRegularFile(script) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if filter != "" {
			matched, err := doublestar.Match(filter, name)
			if err != nil {
				return err
			}
			if !matched {
				return nil
			}
		}

		tc := Case{Dir: path, Name: name, Script: script}
		if seed := filepath.Join(path, SeedFile); isRegularFile(seed) {
			tc.Seed = seed
		}
		cases = append(cases, tc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover cases under %s: %w", root, err)
	}

	return cases, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
