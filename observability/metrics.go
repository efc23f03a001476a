package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphMutations counts relationship graph mutations by kind and result.
	GraphMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_graph_mutations_total",
		Help: "Relationship graph mutations by kind and result",
	}, []string{"kind", "result"})

	// EventsPublished counts events accepted by the bus.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_events_published_total",
		Help: "Events accepted by the bus by kind",
	}, []string{"kind"})

	// EventsDropped counts events the bus or a session could not accept.
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_events_dropped_total",
		Help: "Events dropped because a buffer was full",
	}, []string{"stage"})

	// EventDeliveryDuration tracks how long one fan-out round takes.
	EventDeliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "social_event_delivery_duration_seconds",
		Help:    "Time to deliver one event to every sink of its subject",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	// SinkErrors counts sink deliveries that failed or timed out.
	SinkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_sink_errors_total",
		Help: "Sink deliveries that returned an error",
	})

	// EnrichmentFailures counts feed entries that fell back to placeholders.
	EnrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_feed_enrichment_failures_total",
		Help: "Feed enrichment lookups that failed by lookup kind",
	}, []string{"lookup"})

	// FeedAggregationDuration tracks the latency of a full page enrichment.
	FeedAggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "social_feed_aggregation_duration_seconds",
		Help:    "Feed page enrichment duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	// ToggleOutcomes counts optimistic toggles by kind and final state.
	ToggleOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_toggle_outcomes_total",
		Help: "Optimistic toggles by kind and final state",
	}, []string{"kind", "state"})

	// ActiveSessions is the number of connected websocket sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "social_active_sessions",
		Help: "Connected websocket sessions",
	})

	// PropagationLatency tracks the time between a mutation and its delivery.
	PropagationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "social_event_propagation_latency_seconds",
		Help:    "Time between a mutation and the delivery of its event",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})

	// ReplicatedChanges counts committed writes exchanged with other nodes.
	ReplicatedChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_replicated_changes_total",
		Help: "Committed writes exchanged with other nodes by direction and result",
	}, []string{"direction", "result"})
)

var (
	// ChannelCapacity is the capacity of an internal channel.
	ChannelCapacity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "social_channel_capacity",
		Help: "Capacity of internal channels",
	}, []string{"channel"})

	// ChannelLength is the number of buffered items of an internal channel.
	ChannelLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "social_channel_length",
		Help: "Buffered items of internal channels",
	}, []string{"channel"})

	// WorkerRestarts counts supervised workers restarted after a panic or an error.
	WorkerRestarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_worker_restarts_total",
		Help: "Supervised worker restarts, by worker",
	}, []string{"worker"})
)
