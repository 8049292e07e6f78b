package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskorch/taskorch/internal/application/orchestrator"
	"github.com/taskorch/taskorch/internal/domain"
	"github.com/taskorch/taskorch/internal/ports"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	events chan domain.Event
	agent  string
}

// Handler streams orchestration events to websocket clients. It holds a
// single subscription on the event bus and fans events out to connected
// clients, dropping events for clients that cannot keep up.
type Handler struct {
	bus    ports.EventBus
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	started bool
}

// NewHandler creates a websocket event stream handler.
func NewHandler(bus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		bus:     bus,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// HandleEventStream upgrades the request to a websocket connection and
// streams agent and run events as JSON. The optional agent query
// parameter restricts the stream to events for one agent.
func (h *Handler) HandleEventStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := h.ensureSubscribed(); err != nil {
		h.logger.Error("event subscription failed", zap.Error(err))
		return
	}

	cl := &client{
		events: make(chan domain.Event, 64),
		agent:  c.Query("agent"),
	}
	h.addClient(cl)
	defer h.removeClient(cl)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event := <-cl.events:
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// ensureSubscribed registers the fan-out handler on both event topics
// the first time a client connects. The subscription outlives any
// single request, so it runs on the background context.
func (h *Handler) ensureSubscribed() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return nil
	}

	for _, topic := range []string{orchestrator.TopicAgentEvents, orchestrator.TopicRunEvents} {
		if err := h.bus.Subscribe(context.Background(), topic, h.broadcast); err != nil {
			return err
		}
	}
	h.started = true
	return nil
}

func (h *Handler) broadcast(ctx context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		if cl.agent != "" && event.Agent != cl.agent {
			continue
		}
		select {
		case cl.events <- event:
		default:
			// slow client, drop the event
		}
	}
	return nil
}

func (h *Handler) addClient(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
	h.logger.Info("websocket client connected", zap.Int("clients", len(h.clients)))
}

func (h *Handler) removeClient(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, cl)
	h.logger.Info("websocket client disconnected", zap.Int("clients", len(h.clients)))
}
