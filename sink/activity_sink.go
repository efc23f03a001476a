// Package sink holds permanent sinks of the event bus: they see every event,
// whoever is subscribed.
package sink

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain/event"
	"social-lab/observability"
	"time"
)

var _ contract.EventSink = (*ActivitySink)(nil)

// ActivitySink feeds the stats tracker and reports propagation latency, the time
// between the mutation and its delivery.
type ActivitySink struct {
	log              *slog.Logger
	stats            *observability.StatsTracker
	latencyThreshold time.Duration
	now              func() time.Time
}

func NewActivitySink(log *slog.Logger, stats *observability.StatsTracker, latencyThreshold time.Duration) *ActivitySink {
	return &ActivitySink{log: log, stats: stats, latencyThreshold: latencyThreshold, now: time.Now}
}

func (s *ActivitySink) Consume(_ context.Context, e event.Event) error {
	s.stats.EventDelivered(string(e.Kind), e.SubjectID, e.Sequence)

	leadTime := s.now().Sub(e.At)
	observability.PropagationLatency.Observe(leadTime.Seconds())
	s.log.Debug("Event propagated",
		"kind", e.Kind,
		"subject_id", e.SubjectID,
		"sequence", e.Sequence,
		"lead_time_ms", leadTime.Milliseconds(),
	)
	if s.latencyThreshold > 0 && leadTime > s.latencyThreshold {
		s.log.Warn("High propagation latency detected", "lead_time", leadTime, "subject_id", e.SubjectID)
	}
	return nil
}
