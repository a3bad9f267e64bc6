package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdfgo"
	"github.com/vk/mdfgo/internal/registry"
)

func noopFactory(args map[string]any) (*mdf.Function, error) {
	return mdf.NewFunction("noop", 0, 0, func(in []mdf.Token) []mdf.Token { return nil }), nil
}

func TestRegisterAndBuild(t *testing.T) {
	r := registry.New()
	r.Register("noop", noopFactory)

	fn, err := r.Build("noop", nil)
	require.NoError(t, err)
	assert.Equal(t, "noop", fn.Name())
}

func TestRegisterBuiltins(t *testing.T) {
	r := registry.New()
	registry.RegisterBuiltins(r)

	names := r.Names()
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "multiply")
	assert.Contains(t, names, "identity")

	fn, err := r.Build("multiply", map[string]any{"factor": 3})
	require.NoError(t, err)
	assert.Equal(t, 1, fn.Arity())
}

func TestBuild_MissingFactorArgument(t *testing.T) {
	r := registry.New()
	registry.RegisterBuiltins(r)

	_, err := r.Build("multiply", map[string]any{})
	require.Error(t, err)
}

func TestBuild_UnknownName(t *testing.T) {
	r := registry.New()
	_, err := r.Build("does-not-exist", nil)
	require.Error(t, err)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := registry.New()
	r.Register("dup", noopFactory)
	assert.Panics(t, func() {
		r.Register("dup", noopFactory)
	})
}
