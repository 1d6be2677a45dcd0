// Package testutils provides shared fixtures for spelltest tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// FakeSubjectScript is a stand-in interpreter. It accepts
// `cast <spell> [--seed <seed>]`, exports the seed path as $SEED and sources
// the spell as a shell script, so each spell.lua fixture is shell code.
const FakeSubjectScript = `#!/bin/sh
if [ "$1" != "cast" ]; then
	echo "usage: subject cast <spell> [--seed <seed>]" >&2
	exit 64
fi
spell="$2"
if [ "$3" = "--seed" ]; then
	SEED="$4"
	export SEED
fi
. "$spell"
`

// FileHelpers provides utilities for working with test files
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempDir creates a temporary directory structure
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()

	for filename, content := range files {
		filePath := filepath.Join(tmpDir, filename)

		err := os.MkdirAll(filepath.Dir(filePath), 0755)
		require.NoError(t, err, "Should create directory for %s", filename)

		err = os.WriteFile(filePath, []byte(content), 0644)
		require.NoError(t, err, "Should create file %s", filename)
	}

	return tmpDir
}

// WriteSuite lays out a txtar archive as a suite directory and returns its root.
func (f *FileHelpers) WriteSuite(t *testing.T, archive string) string {
	t.Helper()
	ar := txtar.Parse([]byte(archive))

	files := make(map[string]string, len(ar.Files))
	for _, file := range ar.Files {
		files[file.Name] = string(file.Data)
	}
	return f.CreateTempDir(t, files)
}

// FakeSubject writes FakeSubjectScript to an executable file and returns its path.
func (f *FileHelpers) FakeSubject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sanctum")
	require.NoError(t, os.WriteFile(path, []byte(FakeSubjectScript), 0755))
	return path
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func (f *FileHelpers) ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "Should read %s", path)
	return string(data)
}
