package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskorch/taskorch/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus()

	var mu sync.Mutex
	var received []domain.Event
	err := bus.Subscribe(context.Background(), "runs", func(ctx context.Context, event domain.Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	event := domain.Event{ID: "ev-1", Type: domain.EventTypeRunStarted}
	require.NoError(t, bus.Publish(context.Background(), "runs", event))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	})

	mu.Lock()
	assert.Equal(t, "ev-1", received[0].ID)
	mu.Unlock()
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus()

	var count sync.WaitGroup
	count.Add(3)
	for i := 0; i < 3; i++ {
		err := bus.Subscribe(context.Background(), "runs", func(ctx context.Context, event domain.Event) error {
			count.Done()
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, bus.Publish(context.Background(), "runs", domain.Event{ID: "ev-1"}))

	done := make(chan struct{})
	go func() {
		count.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all subscribers received the event")
	}
}

func TestPublishIgnoresOtherTopics(t *testing.T) {
	bus := NewInMemoryEventBus()

	delivered := make(chan struct{}, 1)
	err := bus.Subscribe(context.Background(), "agents", func(ctx context.Context, event domain.Event) error {
		delivered <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "runs", domain.Event{ID: "ev-1"}))

	select {
	case <-delivered:
		t.Fatal("subscriber received an event from another topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus()
	assert.NoError(t, bus.Publish(context.Background(), "runs", domain.Event{ID: "ev-1"}))
}

func TestUnsubscribeRemovesTopic(t *testing.T) {
	bus := NewInMemoryEventBus()

	delivered := make(chan struct{}, 1)
	require.NoError(t, bus.Subscribe(context.Background(), "runs", func(ctx context.Context, event domain.Event) error {
		delivered <- struct{}{}
		return nil
	}))
	require.NoError(t, bus.Unsubscribe(context.Background(), "runs"))

	require.NoError(t, bus.Publish(context.Background(), "runs", domain.Event{ID: "ev-1"}))

	select {
	case <-delivered:
		t.Fatal("subscriber received an event after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseDropsAllSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus()

	delivered := make(chan struct{}, 1)
	require.NoError(t, bus.Subscribe(context.Background(), "runs", func(ctx context.Context, event domain.Event) error {
		delivered <- struct{}{}
		return nil
	}))
	require.NoError(t, bus.Close())

	require.NoError(t, bus.Publish(context.Background(), "runs", domain.Event{ID: "ev-1"}))

	select {
	case <-delivered:
		t.Fatal("subscriber received an event after close")
	case <-time.After(50 * time.Millisecond):
	}
}
