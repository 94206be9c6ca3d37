// Package testhelpers holds fixtures shared by package tests.
package testhelpers

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Goldie returns a golden-file asserter reading ./testdata/<name><suffix>.
func Goldie(t *testing.T, suffix string) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(suffix))
}

// DotGoldie returns a golden-file asserter for Graphviz output.
func DotGoldie(t *testing.T) *goldie.Goldie {
	return Goldie(t, ".gold.dot")
}

// MermaidGoldie returns a golden-file asserter for mermaid output.
func MermaidGoldie(t *testing.T) *goldie.Goldie {
	return Goldie(t, ".gold.mmd")
}

// JSONGoldie returns a golden-file asserter for JSON output.
func JSONGoldie(t *testing.T) *goldie.Goldie {
	return Goldie(t, ".gold.json")
}

// TextGoldie returns a golden-file asserter for plain text output.
func TextGoldie(t *testing.T) *goldie.Goldie {
	return Goldie(t, ".gold.txt")
}

// WriteFiles creates files under root from slash-separated relative paths.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// ProjectDir creates a temporary project holding files and returns its root
// with symlinks resolved, the way commands report it.
func ProjectDir(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	WriteFiles(t, root, files)
	return root
}

// Execute runs cmd with args and returns its standard output and error output.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// MustExecute runs cmd and fails the test on error. The trailing newline of the
// output is trimmed.
func MustExecute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()

	stdout, stderr, err := Execute(t, cmd, args...)
	require.NoError(t, err, "stderr: %s", strings.TrimSpace(stderr))
	return strings.TrimRight(stdout, "\n")
}
