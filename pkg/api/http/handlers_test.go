package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskorch/taskorch/internal/application/orchestrator"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

type directInvoker struct{}

func (directInvoker) Invoke(ctx context.Context, run func() (any, error)) (any, error) {
	return run()
}

func newTestServer(t *testing.T, configure func(*orchestrator.Registry)) *Server {
	t.Helper()

	registry := orchestrator.NewRegistry()
	if configure != nil {
		configure(registry)
	}
	tracker := orchestrator.NewTracker(nil, ports.NopMetrics{}, zap.NewNop())
	phases := map[string][]string{
		"prep": {"core", "scan"},
	}
	mgr := orchestrator.NewManager(
		registry, tracker, directInvoker{}, nil, nil, phases, zap.NewNop(), time.Millisecond)

	return NewServer(&Config{
		Port:         0,
		Orchestrator: mgr,
		Logger:       zap.NewNop(),
	})
}

func defaultAgents(registry *orchestrator.Registry) {
	registry.Register("core", func() (any, error) {
		return map[string]any{"status": "completed"}, nil
	}, nil)
	registry.Register("scan", func() (any, error) {
		return "scanned", nil
	}, []string{"core"})
	registry.Register("broken", func() (any, error) {
		return nil, errors.New("always fails")
	}, nil)
}

func doRequest(t *testing.T, s *Server, method, target string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "GET", "/health")
	assert.Equal(t, 200, code)
	// Nothing has run yet: no failures, but no successes either.
	assert.Equal(t, "FAIR", body["health_status"])
	assert.EqualValues(t, 3, body["total_agents"])

	_, _ = doRequest(t, s, "POST", "/api/v1/agents/core/run")
	_, _ = doRequest(t, s, "POST", "/api/v1/agents/scan/run")
	_, _ = doRequest(t, s, "POST", "/api/v1/agents/broken/run")

	_, body = doRequest(t, s, "GET", "/health")
	assert.Equal(t, "POOR", body["health_status"])
}

func TestHandleRunAll(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/run?retry_failed=false")
	assert.Equal(t, 200, code)
	assert.EqualValues(t, 2, body["successful"])
	assert.EqualValues(t, 1, body["failed"])
	assert.NotEmpty(t, body["run_id"])
}

func TestHandleRunAllBadQuery(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/run?max_retries=lots")
	assert.Equal(t, 400, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "INVALID_QUERY", errBody["code"])

	code, _ = doRequest(t, s, "POST", "/api/v1/run?retry_failed=maybe")
	assert.Equal(t, 400, code)
}

func TestHandleRunAllUnresolvableGraph(t *testing.T) {
	s := newTestServer(t, func(registry *orchestrator.Registry) {
		registry.Register("orphan", func() (any, error) { return nil, nil }, []string{"ghost"})
	})

	code, body := doRequest(t, s, "POST", "/api/v1/run")
	assert.Equal(t, 422, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "RESOLUTION_FAILED", errBody["code"])
	assert.Contains(t, errBody["message"], "ghost")
}

func TestHandleRunAgent(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/agents/scan/run")
	assert.Equal(t, 200, code)
	assert.Equal(t, "scan", body["agent"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "scanned", body["result"])
}

func TestHandleRunAgentNotFound(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/agents/ghost/run")
	assert.Equal(t, 404, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "AGENT_NOT_FOUND", errBody["code"])
}

func TestHandleRunAgentExecutionFailure(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/agents/broken/run")
	assert.Equal(t, 500, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "EXECUTION_FAILED", errBody["code"])
	assert.Contains(t, errBody["message"], "always fails")
}

func TestHandleRunPhase(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/phases/prep/run")
	assert.Equal(t, 200, code)
	assert.Equal(t, "prep", body["phase"])
	assert.EqualValues(t, 2, body["agents_executed"])
}

func TestHandleRunPhaseUnknown(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "POST", "/api/v1/phases/launch/run")
	assert.Equal(t, 400, code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "INVALID_PHASE", errBody["code"])
	assert.Contains(t, errBody["message"], "prep")
}

func TestHandleListAgents(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "GET", "/api/v1/agents")
	assert.Equal(t, 200, code)
	assert.EqualValues(t, 3, body["total_agents"])
	assert.Len(t, body["execution_order"], 3)
}

func TestHandleAgentStatus(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "GET", "/api/v1/agents/scan")
	assert.Equal(t, 200, code)
	assert.Equal(t, "scan", body["agent_name"])
	assert.Equal(t, "not_run", body["current_status"])

	code, _ = doRequest(t, s, "GET", "/api/v1/agents/ghost")
	assert.Equal(t, 404, code)
}

func TestHandleDependencyGraph(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "GET", "/api/v1/dependencies")
	assert.Equal(t, 200, code)
	assert.EqualValues(t, 3, body["total_agents"])

	graph := body["dependency_graph"].(map[string]any)
	core := graph["core"].(map[string]any)
	assert.Contains(t, core["dependents"], "scan")
}

func TestHandleSystemStatus(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	code, body := doRequest(t, s, "GET", "/api/v1/status")
	assert.Equal(t, 200, code)
	assert.Equal(t, "healthy", body["system_health"])

	_, _ = doRequest(t, s, "POST", "/api/v1/agents/broken/run")

	_, body = doRequest(t, s, "GET", "/api/v1/status")
	assert.Equal(t, "critical", body["system_health"])
}

func TestHandleDashboard(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	_, _ = doRequest(t, s, "POST", "/api/v1/run?retry_failed=false")

	code, body := doRequest(t, s, "GET", "/api/v1/dashboard")
	assert.Equal(t, 200, code)
	assert.EqualValues(t, 3, body["total_agents"])
	assert.Len(t, body["action_log"], 3)
}

func TestHandleExecutionLog(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	_, _ = doRequest(t, s, "POST", "/api/v1/run?retry_failed=false")

	code, body := doRequest(t, s, "GET", "/api/v1/log?limit=2&offset=1")
	assert.Equal(t, 200, code)
	assert.EqualValues(t, 3, body["total_entries"])
	assert.EqualValues(t, 2, body["returned"])

	code, _ = doRequest(t, s, "GET", "/api/v1/log?limit=nope")
	assert.Equal(t, 400, code)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t, func(registry *orchestrator.Registry) {
		registry.Register("orphan", func() (any, error) { return nil, nil }, []string{"ghost"})
	})

	code, body := doRequest(t, s, "POST", "/api/v1/validate")
	assert.Equal(t, 200, code)
	assert.Equal(t, false, body["validation_passed"])
	assert.EqualValues(t, 1, body["total_issues"])
}

func TestHandleReset(t *testing.T) {
	s := newTestServer(t, defaultAgents)

	_, _ = doRequest(t, s, "POST", "/api/v1/run?retry_failed=false")

	code, body := doRequest(t, s, "POST", "/api/v1/reset")
	assert.Equal(t, 200, code)
	assert.NotEmpty(t, body["message"])

	previous := body["previous_state"].(map[string]any)
	assert.EqualValues(t, 3, previous["log_entries_cleared"])

	_, body = doRequest(t, s, "GET", "/api/v1/log")
	assert.EqualValues(t, 0, body["total_entries"])
}
