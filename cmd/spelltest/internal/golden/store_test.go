package golden

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sackosoft/sanctum/internal/testutils"
)

func TestStore_ReadAbsentFiles(t *testing.T) {
	store := NewStore(t.TempDir())

	_, ok, err := store.ReadExpectedStdout()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.ReadExpectedStderr()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.ReadExpectedExitCode()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ReadExpectedExitCode(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
		wantErr  bool
	}{
		{name: "plain", content: "2", expected: 2},
		{name: "trimmed", content: "  3\n", expected: 3},
		{name: "negative", content: "-1\n", expected: -1},
		{name: "garbage", content: "two\n", wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutils.NewFileHelpers().CreateTempDir(t, map[string]string{ExitCodeFile: tt.content})
			code, ok, err := NewStore(dir).ReadExpectedExitCode()
			assert.True(t, ok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidExitCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestStore_WriteAndRead(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.WriteStdout([]byte("hi\n")))
	require.NoError(t, store.WriteStderr(nil))
	require.NoError(t, store.WriteExitCode(3))

	stdout, ok, err := store.ReadExpectedStdout()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi\n", stdout)

	stderr, ok, err := store.ReadExpectedStderr()
	require.NoError(t, err)
	assert.True(t, ok, "an empty golden file still exists")
	assert.Equal(t, "", stderr)

	code, ok, err := store.ReadExpectedExitCode()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestStore_WriteRefusesUndecodable(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	err := store.WriteStdout([]byte{0xff, 0x00})
	assert.ErrorIs(t, err, ErrUndecodable)

	_, statErr := os.Stat(filepath.Join(dir, StdoutFile))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestStore_WriteOverwrites(t *testing.T) {
	dir := testutils.NewFileHelpers().CreateTempDir(t, map[string]string{StdoutFile: "old output that is longer\n"})
	store := NewStore(dir)

	require.NoError(t, store.WriteStdout([]byte("new\n")))
	assert.Equal(t, "new\n", testutils.NewFileHelpers().ReadFile(t, store.Path(StdoutFile)))
}
