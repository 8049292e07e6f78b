package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskorch/taskorch/internal/application/orchestrator"
)

func TestRegisterInstallsResolvableGraph(t *testing.T) {
	registry := orchestrator.NewRegistry()
	Register(registry)

	assert.Equal(t, 5, registry.Len())

	report := orchestrator.NewResolver(registry).Validate()
	assert.True(t, report.Passed)

	order, err := orchestrator.NewResolver(registry).Resolve()
	require.NoError(t, err)
	assert.Len(t, order, 5)
}

func TestBuiltinHandlersSucceed(t *testing.T) {
	registry := orchestrator.NewRegistry()
	Register(registry)

	for _, name := range registry.Names() {
		agent, err := registry.Get(name)
		require.NoError(t, err)

		result, err := agent.Handler()
		require.NoError(t, err, "agent %s", name)

		payload, ok := result.(map[string]any)
		require.True(t, ok, "agent %s", name)
		assert.Equal(t, "completed", payload["status"])
	}
}

func TestPhasesReferenceRegisteredAgents(t *testing.T) {
	registry := orchestrator.NewRegistry()
	Register(registry)

	for phase, names := range Phases() {
		assert.NotEmpty(t, names, "phase %s", phase)
		for _, name := range names {
			assert.True(t, registry.Has(name), "phase %s references %s", phase, name)
		}
	}
}
