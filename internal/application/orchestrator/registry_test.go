package orchestrator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register("alpha", okHandler("done"), []string{"beta"})

	agent, err := registry.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", agent.Name)
	assert.Equal(t, []string{"beta"}, agent.Dependencies)

	result, err := agent.Handler()
	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("ghost")
	assert.True(t, errors.Is(err, ErrAgentNotFound))
}

func TestRegistryReRegisterOverwrites(t *testing.T) {
	registry := NewRegistry()
	registry.Register("alpha", okHandler("first"), nil)
	registry.Register("beta", okHandler("other"), nil)
	registry.Register("alpha", okHandler("second"), []string{"beta"})

	assert.Equal(t, 2, registry.Len())

	agent, err := registry.Get("alpha")
	require.NoError(t, err)
	result, err := agent.Handler()
	require.NoError(t, err)
	assert.Equal(t, "second", result)
	assert.Equal(t, []string{"beta"}, agent.Dependencies)

	// Re-registration keeps the original position.
	assert.Equal(t, []string{"alpha", "beta"}, registry.Names())
}

func TestRegistryNamesInRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		registry.Register(name, okHandler(nil), nil)
	}

	assert.Equal(t, []string{"c", "a", "b"}, registry.Names())
}

func TestRegistryDependenciesCopied(t *testing.T) {
	registry := NewRegistry()
	deps := []string{"x"}
	registry.Register("alpha", okHandler(nil), deps)

	deps[0] = "mutated"
	assert.Equal(t, []string{"x"}, registry.Dependencies("alpha"))

	got := registry.Dependencies("alpha")
	got[0] = "mutated"
	assert.Equal(t, []string{"x"}, registry.Dependencies("alpha"))
}

func TestRegistryHas(t *testing.T) {
	registry := NewRegistry()
	registry.Register("alpha", okHandler(nil), nil)

	assert.True(t, registry.Has("alpha"))
	assert.False(t, registry.Has("beta"))
}
