package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// zooDir is the shared CUE package used by command tests.
var zooDir = filepath.Join("..", "..", "testdata", "zoo")

// runCommand executes the root command with args and returns stdout,
// stderr and the command error.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeCUE writes a single-file CUE package into a new temp dir.
func writeCUE(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	src = "package graph\n" + src
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.cue"), []byte(src), 0o644))
	return dir
}
