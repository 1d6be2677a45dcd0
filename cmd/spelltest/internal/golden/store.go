package golden

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrInvalidExitCode is returned when exitcode.assert does not hold an integer.
var ErrInvalidExitCode = errors.New("invalid expected exit code")

// Store reads and writes the golden files of one case directory.
type Store struct {
	dir string
}

// NewStore creates a store for the case directory dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the path of a golden file in the case directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// ReadExpectedStdout returns the golden stdout and whether it exists.
func (s *Store) ReadExpectedStdout() (string, bool, error) {
	return s.readText(StdoutFile)
}

// ReadExpectedStderr returns the golden stderr and whether it exists.
func (s *Store) ReadExpectedStderr() (string, bool, error) {
	return s.readText(StderrFile)
}

// ReadExpectedExitCode returns the golden exit code and whether it exists.
func (s *Store) ReadExpectedExitCode() (int, bool, error) {
	text, ok, err := s.readText(ExitCodeFile)
	if err != nil || !ok {
		return 0, ok, err
	}

	code, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, true, fmt.Errorf("%w in %s: %q", ErrInvalidExitCode, s.Path(ExitCodeFile), strings.TrimSpace(text))
	}
	return code, true, nil
}

// WriteStdout overwrites the golden stdout with raw, which must be UTF-8.
func (s *Store) WriteStdout(raw []byte) error {
	return s.writeText(StdoutFile, raw)
}

// WriteStderr overwrites the golden stderr with raw, which must be UTF-8.
func (s *Store) WriteStderr(raw []byte) error {
	return s.writeText(StderrFile, raw)
}

// WriteExitCode overwrites the golden exit code.
func (s *Store) WriteExitCode(code int) error {
	path := s.Path(ExitCodeFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(code)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Store) readText(name string) (string, bool, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), true, nil
}

func (s *Store) writeText(name string, raw []byte) error {
	path := s.Path(name)
	text, err := Decode(raw)
	if err != nil {
		return fmt.Errorf("refusing to write %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
