package runtime

import (
	"context"
	"social-lab/contract"
	"social-lab/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.Event) error {
	return nil
}

func TestRegistry_Subscribe_One_Subject_One_Subscriber(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID := uuid.NewString()
	sink := Sink{name: "alice"}

	// Given nobody is connected
	req.Empty(registry.Sessions)
	req.Empty(registry.SubjectSubscribers)

	// When a subscriber observes bob
	registry.Subscribe(subscriberID, "bob", sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[subscriberID])
	req.Contains(registry.SubjectSubscribers["bob"], subscriberID)
	req.Contains(registry.Subscriptions[subscriberID], "bob")
	req.Equal([]contract.EventSink{sink}, registry.GetSinksForSubject("bob"))
	req.True(registry.IsSubscribed(subscriberID, "bob"))
	req.Nil(registry.GetSinksForSubject("carol"))
}

func TestRegistry_Subscribe_One_Subject_Multiple_Subscribers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("s1", "bob", Sink{name: "s1"})
	registry.Subscribe("s2", "bob", Sink{name: "s2"})
	registry.Subscribe("s2", "p1", Sink{name: "s2"})

	req.Len(registry.Sessions, 2)
	req.Len(registry.SubjectSubscribers["bob"], 2)
	req.Len(registry.GetSinksForSubject("bob"), 2)
	req.Len(registry.GetSinksForSubject("p1"), 1)
}

func TestRegistry_Unsubscribe_Removes_Empty_Sets(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("s1", "bob", Sink{})
	registry.Subscribe("s1", "p1", Sink{})

	// When the first subject is released
	registry.Unsubscribe("s1", "bob")

	// Then bob has no entry left but the session survives for p1
	req.NotContains(registry.SubjectSubscribers, "bob")
	req.False(registry.IsSubscribed("s1", "bob"))
	req.Contains(registry.Sessions, "s1")

	// When the last subject is released
	registry.Unsubscribe("s1", "p1")

	// Then no state survives
	req.Empty(registry.SubjectSubscribers)
	req.Empty(registry.Subscriptions)
	req.Empty(registry.Sessions)
}

func TestRegistry_Disconnect(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("s1", "bob", Sink{})
	registry.Subscribe("s1", "p1", Sink{})
	registry.Subscribe("s2", "bob", Sink{})

	registry.Disconnect("s1")

	req.NotContains(registry.Sessions, "s1")
	req.NotContains(registry.Subscriptions, "s1")
	req.Len(registry.GetSinksForSubject("bob"), 1)
	req.Nil(registry.GetSinksForSubject("p1"))

	// Disconnecting an unknown subscriber is harmless
	registry.Disconnect("unknown")
}
