package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_BuiltinDiamond(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-arg", "5", "-workers", "2"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "output[0] = 20")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined")
}

func TestRun_GraphFile(t *testing.T) {
	t.Parallel()

	graph := `
function "in" {
  type = "identity"
}
function "out" {
  type = "multiply"
  factor = 3
}
wire {
  from = "in"
  to   = "out"
  to_slot = 0
}
input  = "in"
output = "out"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(graph), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-graph", path, "-arg", "4"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "output[0] = 12")
}
