// Package shared provides common utilities for spelltest.
package shared

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotExecutable is returned when the subject path is not an executable file.
	ErrNotExecutable = errors.New("not an executable file")

	// ErrNotDirectory is returned when the suite root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// CheckSubject verifies that path names a regular file with an execute bit set.
func CheckSubject(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("unable to run program, '%s': %w", path, ErrNotExecutable)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("unable to run program, '%s': %w", path, ErrNotExecutable)
	}
	return nil
}

// CheckSuiteRoot verifies that path names a directory.
func CheckSuiteRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("invalid test suite '%s', expected a path to a directory: %w", path, ErrNotDirectory)
	}
	return nil
}
