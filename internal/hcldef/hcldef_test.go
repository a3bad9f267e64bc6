package hcldef_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/mdfgo"
	"github.com/vk/mdfgo/internal/hcldef"
	"github.com/vk/mdfgo/internal/registry"
)

func writeGraph(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_SimplePipe(t *testing.T) {
	reg := registry.New()
	registry.RegisterBuiltins(reg)

	path := writeGraph(t, `
function "in" {
  type = "identity"
}
function "out" {
  type = "multiply"
  factor = 2
}
wire {
  from = "in"
  to   = "out"
  to_slot = 0
}
input  = "in"
output = "out"
`)

	tmpl, err := hcldef.Load(path, reg)
	require.NoError(t, err)

	exec := mdf.NewExecutor(1)
	defer exec.Shutdown()

	future, err := exec.Run(context.Background(), tmpl, mdf.NewToken(10))
	require.NoError(t, err)
	tokens, err := future.Get()
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, 20, tokens[0].Value)
}

func TestLoad_UnknownFunctionType(t *testing.T) {
	reg := registry.New()
	registry.RegisterBuiltins(reg)

	path := writeGraph(t, `
function "in" {
  type = "does-not-exist"
}
input  = "in"
output = "in"
`)

	_, err := hcldef.Load(path, reg)
	require.Error(t, err)
}

func TestLoad_UnknownWireTarget(t *testing.T) {
	reg := registry.New()
	registry.RegisterBuiltins(reg)

	path := writeGraph(t, `
function "in" {
  type = "identity"
}
wire {
  from = "in"
  to   = "ghost"
  to_slot = 0
}
input  = "in"
output = "in"
`)

	_, err := hcldef.Load(path, reg)
	require.Error(t, err)
}
