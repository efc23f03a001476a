package sink

import (
	"context"
	"log/slog"
	"social-lab/domain/event"
	"social-lab/observability"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestActivitySink_Records_Delivery(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewStatsTracker(log, time.Second)
	s := NewActivitySink(log, stats, 10*time.Millisecond)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at.Add(time.Second) }

	// When a late event is consumed
	err := s.Consume(context.Background(), event.Event{
		Kind: event.Follow, SubjectID: "alice", Delta: 1, Sequence: 3, At: at,
	})

	// Then it is recorded in the stats snapshot
	req.NoError(err)
	stats.Refresh()
	latest := stats.GetLatest()
	req.Equal(uint64(1), latest.EventsDelivered)
	req.Equal("alice", latest.RecentEvents[0].SubjectID)
	req.Equal(uint64(3), latest.RecentEvents[0].Sequence)
}
