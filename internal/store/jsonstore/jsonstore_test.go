package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)

	_, ok := s.Get("todos")
	assert.False(t, ok)
}

func TestSetPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("todos", `[{"id":1,"text":"buy milk","complete":false}]`))
	require.NoError(t, s.Set("other", "x"))

	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok := reopened.Get("todos")
	require.True(t, ok)
	assert.Equal(t, `[{"id":1,"text":"buy milk","complete":false}]`, v)
	v, _ = reopened.Get("other")
	assert.Equal(t, "x", v)
	assert.Equal(t, path, reopened.Path())
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("todos", "[]"))
}

func TestOpenDefaultsToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	s, err := Open("")
	require.NoError(t, err)
	require.NoError(t, s.Set("todos", "[]"))

	_, err = os.Stat(filepath.Join(dir, DefaultFileName))
	assert.NoError(t, err)
}

func TestSetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "storage.json"))
	require.NoError(t, err)
	require.NoError(t, s.Set("todos", "[]"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "storage.json", entries[0].Name())
}
