package runtime

import (
	"context"
	"log/slog"
	"social-lab/domain/event"
	"social-lab/runtime/workers"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type collectingSink struct {
	mu     sync.Mutex
	events []event.Event
	notify chan struct{}
}

func newCollectingSink() *collectingSink {
	return &collectingSink{notify: make(chan struct{}, 100)}
}

func (c *collectingSink) Consume(_ context.Context, e event.Event) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *collectingSink) Events() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Event(nil), c.events...)
}

func waitFor(t *testing.T, c *collectingSink, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.notify:
		case <-time.After(time.Second):
			require.FailNow(t, "event not delivered")
		}
	}
}

func TestEventBus_Delivers_To_Subject_Subscribers_Only(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	bus := NewEventBus(log, workers.NewSupervisor(log), NewRegistry(), 10, time.Second)
	audit := newCollectingSink()
	bobViewer := newCollectingSink()
	carolViewer := newCollectingSink()
	bus.Add(audit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	// Given one viewer on bob and another on carol
	bus.Subscribe("s1", "bob", bobViewer)
	bus.Subscribe("s2", "carol", carolViewer)

	// When two events are published on bob
	bus.Publish(event.Event{Kind: event.Follow, SubjectID: "bob", Delta: 1, Sequence: 1})
	bus.Publish(event.Event{Kind: event.Unfollow, SubjectID: "bob", Delta: -1, Sequence: 2})

	// Then the permanent sink and bob's viewer get them in order
	waitFor(t, audit, 2)
	waitFor(t, bobViewer, 2)
	req.Equal([]uint64{1, 2}, []uint64{bobViewer.Events()[0].Sequence, bobViewer.Events()[1].Sequence})
	req.Empty(carolViewer.Events())

	bus.Stop()
}

func TestEventBus_Publish_Never_Blocks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	bus := NewEventBus(log, workers.NewSupervisor(log), NewRegistry(), 1, time.Second)

	// Given a bus that is not started and a buffer of one
	done := make(chan struct{})
	go func() {
		bus.Publish(event.Event{SubjectID: "bob", Sequence: 1})
		bus.Publish(event.Event{SubjectID: "bob", Sequence: 2})
		close(done)
	}()

	// Then the second publish is dropped instead of blocking
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Publish blocked on a full buffer")
	}
}

func TestEventBus_Unsubscribe_Stops_Delivery(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	bus := NewEventBus(log, workers.NewSupervisor(log), registry, 10, time.Second)
	viewer := newCollectingSink()
	audit := newCollectingSink()
	bus.Add(audit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	bus.Subscribe("s1", "bob", viewer)
	bus.Publish(event.Event{SubjectID: "bob", Sequence: 1})
	waitFor(t, viewer, 1)

	bus.Disconnect("s1")
	bus.Publish(event.Event{SubjectID: "bob", Sequence: 2})
	waitFor(t, audit, 2)

	require.Len(t, viewer.Events(), 1)
	require.False(t, bus.IsSubscribed("s1", "bob"))
}
