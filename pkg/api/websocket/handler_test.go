package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskorch/taskorch/internal/application/orchestrator"
	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/pkg/adapters/events/memory"
	"go.uber.org/zap"
)

func newStreamServer(t *testing.T) (*memory.InMemoryEventBus, string) {
	t.Helper()

	bus := memory.NewInMemoryEventBus()
	handler := NewHandler(bus, zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/events/ws", handler.HandleEventStream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return bus, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events/ws"
}

// readEvent publishes the event until the connection yields one; the
// subscription races the first publish, so a single shot could be lost.
func readEvent(t *testing.T, conn *websocket.Conn, bus *memory.InMemoryEventBus, topic string, event domain.Event) domain.Event {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, bus.Publish(context.Background(), topic, event))

		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		var got domain.Event
		if err := conn.ReadJSON(&got); err == nil {
			return got
		}
	}
	t.Fatal("no event received")
	return domain.Event{}
}

func TestEventStreamDeliversEvents(t *testing.T) {
	bus, url := newStreamServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	got := readEvent(t, conn, bus, orchestrator.TopicAgentEvents, domain.Event{
		ID:    "ev-1",
		Type:  domain.EventTypeAgentCompleted,
		Agent: "scan",
		RunID: "run-1",
	})

	assert.Equal(t, "ev-1", got.ID)
	assert.Equal(t, domain.EventTypeAgentCompleted, got.Type)
	assert.Equal(t, "scan", got.Agent)
}

func TestEventStreamAgentFilter(t *testing.T) {
	bus, url := newStreamServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?agent=scan", nil)
	require.NoError(t, err)
	defer conn.Close()

	// Events for other agents are filtered out; only scan comes through.
	require.NoError(t, bus.Publish(context.Background(), orchestrator.TopicAgentEvents, domain.Event{
		ID:    "other",
		Type:  domain.EventTypeAgentCompleted,
		Agent: "core",
	}))

	got := readEvent(t, conn, bus, orchestrator.TopicAgentEvents, domain.Event{
		ID:    "wanted",
		Type:  domain.EventTypeAgentFailed,
		Agent: "scan",
	})
	assert.Equal(t, "wanted", got.ID)
	assert.Equal(t, "scan", got.Agent)
}

func TestEventStreamRunEvents(t *testing.T) {
	bus, url := newStreamServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	got := readEvent(t, conn, bus, orchestrator.TopicRunEvents, domain.Event{
		ID:    "run-ev",
		Type:  domain.EventTypeRunStarted,
		RunID: "run-9",
	})
	assert.Equal(t, domain.EventTypeRunStarted, got.Type)
	assert.Equal(t, "run-9", got.RunID)
}
