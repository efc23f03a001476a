package workers

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain/event"
	"social-lab/observability"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout delivers every event to the permanent sinks and to the sinks of the
// subscribers observing the event subject.
//
// Events are handled one at a time and sinks are called in sequence, so each sink
// sees the events of a subject in the order they were published. A sink gets at
// most sinkTimeout per event, a slow or failing sink never stops the loop.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	events         <-chan event.Event
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, permanentSinks []contract.EventSink, registry contract.IRegistry,
	events <-chan event.Event, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		permanentSinks: permanentSinks,
		registry:       registry,
		events:         events,
		sinkTimeout:    sinkTimeout,
	}
}

func (w EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fan-out")
			return nil
		}
	}
}

// Fanout one delivery per sink for each event
func (w EventFanout) Fanout(ctx context.Context, evt event.Event) {
	start := time.Now()
	defer func() {
		observability.EventDeliveryDuration.Observe(time.Since(start).Seconds())
	}()

	sinks := append(append([]contract.EventSink(nil), w.permanentSinks...),
		w.registry.GetSinksForSubject(evt.SubjectID)...)
	for _, sink := range sinks {
		w.deliver(ctx, sink, evt)
	}
}

func (w EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.Event) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		observability.SinkErrors.Inc()
		w.log.Debug("Sink failed to consume event",
			"error", err, "kind", evt.Kind, "subject_id", evt.SubjectID, "sequence", evt.Sequence)
	}
}
