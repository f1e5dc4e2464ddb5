package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/todo"
)

type result struct {
	code           int
	stdout, stderr string
}

type env struct {
	t    *testing.T
	path string
	cfg  *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.json")
	return &env{t: t, path: path, cfg: &config.Config{
		StoragePath: path,
		StorageKey:  config.DefaultStorageKey,
		Theme:       "mono",
		LogLevel:    "warn",
		LogFormat:   "text",
	}}
}

func (e *env) run(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, Options{
		Config: e.cfg,
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: log.New(io.Discard),
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// todos reads the list back from the storage file.
func (e *env) todos() []model.Item {
	e.t.Helper()
	kv, err := jsonstore.Open(e.path)
	require.NoError(e.t, err)
	raw, ok := kv.Get(config.DefaultStorageKey)
	if !ok {
		return nil
	}
	items, err := todo.Decode(raw)
	require.NoError(e.t, err)
	return items
}

func TestAddToggleEditRemove(t *testing.T) {
	e := newEnv(t)

	r := e.run("add", "buy", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #1")

	r = e.run("add", "walk dog")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #2")

	r = e.run("done", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "completed #1")

	assert.Equal(t, []model.Item{
		{ID: 1, Text: "buy milk", Complete: true},
		{ID: 2, Text: "walk dog"},
	}, e.todos())

	r = e.run("edit", "1", "buy", "oat", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "edited #1")

	r = e.run("toggle", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "reopened #1")

	r = e.run("rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed #1")

	assert.Equal(t, []model.Item{{ID: 2, Text: "walk dog"}}, e.todos())

	r = e.run("add", "feed cat")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #3")
}

func TestList(t *testing.T) {
	e := newEnv(t)
	e.run("add", "buy milk")
	e.run("add", "walk dog")
	e.run("done", "2")

	r := e.run("ls")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Todos")
	assert.Contains(t, r.stdout, "[ ] buy milk")
	assert.Contains(t, r.stdout, "[x]")
	assert.Contains(t, r.stdout, "walk dog")

	e.cfg.Group = true
	r = e.run("ls")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Pending")
	assert.Contains(t, r.stdout, "Done")
}

func TestListEmptyDoesNotWrite(t *testing.T) {
	e := newEnv(t)
	r := e.run("ls")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "nothing added yet")

	_, err := os.Stat(e.path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no args", args: nil},
		{name: "unknown", args: []string{"frobnicate"}, wantErr: "unknown subcommand: frobnicate"},
		{name: "add without text", args: []string{"add"}, wantErr: "usage: todo add"},
		{name: "add blank text", args: []string{"add", "  "}, wantErr: "add: empty text"},
		{name: "done without id", args: []string{"done"}, wantErr: "usage: todo done"},
		{name: "done not a number", args: []string{"done", "x"}, wantErr: "done: not a number: x"},
		{name: "rm unknown id", args: []string{"rm", "99"}, wantErr: "rm: no item with id 99"},
		{name: "edit missing text", args: []string{"edit", "1"}, wantErr: "usage: todo edit"},
		{name: "edit unknown id", args: []string{"edit", "99", "x"}, wantErr: "edit: no item with id 99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			r := e.run(tt.args...)
			assert.Equal(t, 2, r.code)
			if tt.wantErr != "" {
				assert.Contains(t, r.stderr, tt.wantErr)
			}
			assert.Empty(t, e.todos())
		})
	}
}

func TestEditBlankTextLeavesItem(t *testing.T) {
	e := newEnv(t)
	e.run("add", "buy milk")

	r := e.run("edit", "1", " ")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "edit: empty text")
	assert.Equal(t, []model.Item{{ID: 1, Text: "buy milk"}}, e.todos())
}

func TestHelpAndConfig(t *testing.T) {
	e := newEnv(t)

	r := e.run("help")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Subcommands:")

	r = e.run("config")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, `storage_key = "todos"`)
}

func TestMalformedStorageFile(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.path, []byte("{broken"), 0o644))

	r := e.run("ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "open storage")
}

func TestUnparseableListStartsEmpty(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.path, []byte(`{"todos":"not a list"}`), 0o644))

	r := e.run("add", "fresh start")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, []model.Item{{ID: 1, Text: "fresh start"}}, e.todos())
}

func TestCustomStorageKey(t *testing.T) {
	e := newEnv(t)
	e.cfg.StorageKey = "work"
	require.Equal(t, 0, e.run("add", "ship it").code)

	assert.Empty(t, e.todos(), "default key untouched")

	kv, err := jsonstore.Open(e.path)
	require.NoError(t, err)
	raw, ok := kv.Get("work")
	require.True(t, ok)
	assert.Contains(t, raw, "ship it")
}

func TestSaveFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	e := newEnv(t)
	require.Equal(t, 0, e.run("add", "buy milk").code)

	dir := filepath.Dir(e.path)
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	r := e.run("add", "walk dog")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "save:")
}
