// Package runtime propagates state-changing events from the relationship graph to
// every subscriber observing the affected subject. It holds no business rules.
package runtime

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain/event"
	"social-lab/errors"
	"social-lab/observability"
	"social-lab/runtime/workers"
	"sync"
	"time"
)

var _ contract.IPublisher = (*EventBus)(nil)

type EventBus struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	events         chan event.Event
	permanentSinks []contract.EventSink
	extraWorkers   []contract.Worker
	sinkTimeout    time.Duration
}

func NewEventBus(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	bufferSize int, sinkTimeout time.Duration) *EventBus {
	return &EventBus{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.Event, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Add registers sinks receiving every event regardless of subscriptions.
// Must be called before Start.
func (b *EventBus) Add(sinks ...contract.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.permanentSinks = append(b.permanentSinks, sinks...)
}

// AddWorker runs extra workers under the bus supervisor.
func (b *EventBus) AddWorker(w ...contract.Worker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.extraWorkers = append(b.extraWorkers, w...)
}

// Publish enqueues the event without blocking. A full buffer drops the event,
// subscribers recover through sequence gap detection.
func (b *EventBus) Publish(e event.Event) {
	select {
	case b.events <- e:
		observability.EventsPublished.WithLabelValues(string(e.Kind)).Inc()
	default:
		observability.EventsDropped.WithLabelValues("bus").Inc()
		b.log.Warn("Event buffer full, dropping event",
			"error", errors.ErrTransportUnavailable,
			"kind", e.Kind, "subject_id", e.SubjectID, "sequence", e.Sequence)
	}
}

// Queue exposes the event buffer for capacity sampling.
func (b *EventBus) Queue() <-chan event.Event {
	return b.events
}

func (b *EventBus) Subscribe(subscriberID, subjectID string, sink contract.EventSink) {
	b.registry.Subscribe(subscriberID, subjectID, sink)
}

func (b *EventBus) Unsubscribe(subscriberID, subjectID string) {
	b.registry.Unsubscribe(subscriberID, subjectID)
}

func (b *EventBus) Disconnect(subscriberID string) {
	b.registry.Disconnect(subscriberID)
}

func (b *EventBus) IsSubscribed(subscriberID, subjectID string) bool {
	return b.registry.IsSubscribed(subscriberID, subjectID)
}

// Start registers the fan-out worker and blocks while the supervisor runs.
func (b *EventBus) Start(ctx context.Context) {
	b.mu.Lock()
	sinks := append([]contract.EventSink(nil), b.permanentSinks...)
	fanout := workers.NewEventFanout(b.log, sinks, b.registry, b.events, b.sinkTimeout)
	b.supervisor.Add(fanout)
	b.supervisor.Add(b.extraWorkers...)
	b.mu.Unlock()

	b.log.Info("Starting event bus and all supervised workers", "permanent_sinks", len(sinks))
	b.supervisor.Run(ctx)
}

func (b *EventBus) Stop() {
	b.log.Info("Requesting event bus shutdown")
	b.supervisor.Stop()
}
