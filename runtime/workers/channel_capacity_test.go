package workers

import (
	"log/slog"
	"social-lab/observability"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	ch := make(chan int, 8)
	ch <- 1
	ch <- 2

	worker := NewChannelCapacityWorker(slog.Default(), []NamedChannel{
		{Name: "test_events", Channel: ch},
		{Name: "not_a_channel", Channel: 42},
	}, 0)

	worker.Sample()

	var capacity, length dto.Metric
	req.NoError(observability.ChannelCapacity.WithLabelValues("test_events").Write(&capacity))
	req.NoError(observability.ChannelLength.WithLabelValues("test_events").Write(&length))
	req.Equal(float64(8), capacity.GetGauge().GetValue())
	req.Equal(float64(2), length.GetGauge().GetValue())
}
