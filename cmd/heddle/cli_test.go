package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTwillDocument stores a twill 2/2 feeding flip-vertical.
func writeTwillDocument(t *testing.T, dir string) string {
	t.Helper()
	b := dsl.New()
	b.Op("twill", "twill").Param("up", 2).Param("down", 2)
	b.Op("flip", "flip-vertical").From("twill")
	ws, _, err := b.Build(context.Background(), heddle.WithID("demo"))
	require.NoError(t, err)

	path := filepath.Join(dir, "twill.yaml")
	data, err := document.Marshal(document.Export(ws), document.YAML)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "heddle version "+heddle.Version)
}

func TestOpsList(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := execute(t, "ops", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "interlace")
	assert.Contains(t, out, "pipe/all-required")

	out, err = execute(t, "ops", "describe", "fliphorz", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Flip Horizontal")

	_, err = execute(t, "ops", "describe", "nope")
	assert.Error(t, err)
}

func TestStep(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := execute(t, "step", "shift", "--draft", "x...", "-p", "amount=1", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, "shift(shift(shift(input))) [1x4]\n...x\n", out)

	_, err = execute(t, "step", "shift", "--draft", "x...", "-n", "1", "-p", "amount=1", "-p", "bogus")
	assert.Error(t, err)
}

func TestRunAndGraph(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeTwillDocument(t, dir)

	out, err := execute(t, "run", path, "--leaves", "--out", filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, "flip-vertical(twill) [4x4]\nx..x\n..xx\n.xx.\nxx..\n\n", out)
	assert.FileExists(t, filepath.Join(dir, "out.json"))

	out, err = execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "Flip Vertical")

	_, err = execute(t, "run", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkspaceCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeTwillDocument(t, dir)
	store := []string{"--store-backend", "file", "--store-dir", filepath.Join(dir, "store")}

	out, err := execute(t, append([]string{"workspace", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No workspaces found.")

	out, err = execute(t, append([]string{"workspace", "import", path, "copy"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored workspace 'copy'")

	out, err = execute(t, append([]string{"ws", "ls"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- copy")

	out, err = execute(t, append([]string{"workspace", "export", "copy", "--format", "json"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "copy"`)

	out, err = execute(t, append([]string{"workspace", "rm", "copy"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed workspace 'copy'")

	_, err = execute(t, append([]string{"workspace", "export", "copy"}, store...)...)
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "version", "--store-backend", "tape")
	assert.Error(t, err)
	_, err = execute(t, "version", "--store-backend", "file")
	assert.NoError(t, err)
}
