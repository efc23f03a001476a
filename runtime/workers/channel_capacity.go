package workers

import (
	"context"
	"log/slog"
	"reflect"
	"social-lab/contract"
	"social-lab/observability"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

// ChannelCapacityWorker periodically samples the length and capacity of the given
// channels into gauges. Reading len and cap is non-blocking so sampling never
// interferes with producers or consumers.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, channels: channels, metricInterval: metricInterval}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample records one reading per channel.
func (w ChannelCapacityWorker) Sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		observability.ChannelCapacity.WithLabelValues(nc.Name).Set(float64(v.Cap()))
		observability.ChannelLength.WithLabelValues(nc.Name).Set(float64(v.Len()))
	}
}
