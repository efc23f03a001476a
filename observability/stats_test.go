package observability

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestStatsTracker_Refresh(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	tracker := NewStatsTracker(log, time.Second)

	// Given two sessions, one closed, and some traffic
	tracker.SessionOpened()
	tracker.SessionOpened()
	tracker.SessionClosed()
	tracker.EventDelivered("FOLLOW", "alice", 1)
	tracker.EventDelivered("FOLLOW", "alice", 2)
	tracker.EventDropped()

	// When the snapshot is refreshed
	tracker.Refresh()
	stats := tracker.GetLatest()

	// Then counters and the newest-first activity list are exposed
	req.Equal(int64(1), stats.ActiveSessions)
	req.Equal(uint64(2), stats.EventsDelivered)
	req.Equal(uint64(1), stats.EventsDropped)
	req.Len(stats.RecentEvents, 2)
	req.Equal(uint64(2), stats.RecentEvents[0].Sequence)
	req.Positive(stats.Goroutines)
}

func TestStatsTracker_Recent_Events_Are_Bounded(t *testing.T) {
	req := require.New(t)
	tracker := NewStatsTracker(logs.GetLoggerFromLevel(slog.LevelDebug), time.Second)

	for i := 0; i < 50; i++ {
		tracker.EventDelivered("LIKE_TOGGLED", fmt.Sprintf("post-%d", i), uint64(i))
	}
	tracker.Refresh()

	stats := tracker.GetLatest()
	req.Len(stats.RecentEvents, maxRecentEvents)
	req.Equal("post-49", stats.RecentEvents[0].SubjectID)
}
