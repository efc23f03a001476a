package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RecentEvent is one line of the recent activity list of the stats endpoint.
type RecentEvent struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
	Sequence  uint64 `json:"sequence"`
	Timestamp string `json:"timestamp"`
}

// Stats is the snapshot served by the debug stats endpoint.
type Stats struct {
	ActiveSessions  int64         `json:"active_sessions"`
	EventsDelivered uint64        `json:"events_delivered"`
	EventsDropped   uint64        `json:"events_dropped"`
	EventsPerSecond float64       `json:"events_per_second"`
	AllocMemMb      uint64        `json:"alloc_mem_mb"`
	NumGC           uint32        `json:"num_gc"`
	Goroutines      int           `json:"goroutines"`
	RecentEvents    []RecentEvent `json:"recent_events"`
}

const maxRecentEvents = 20

// StatsTracker keeps live counters in atomics and refreshes a snapshot on every tick.
type StatsTracker struct {
	log      *slog.Logger
	interval time.Duration

	mu     sync.RWMutex
	latest Stats
	recent []RecentEvent

	sessions  int64
	delivered uint64
	dropped   uint64
	window    uint64
	lastCheck time.Time
}

func NewStatsTracker(log *slog.Logger, interval time.Duration) *StatsTracker {
	if interval <= 0 {
		interval = time.Second
	}
	return &StatsTracker{log: log, interval: interval, lastCheck: time.Now()}
}

func (s *StatsTracker) SessionOpened() {
	atomic.AddInt64(&s.sessions, 1)
	ActiveSessions.Inc()
}

func (s *StatsTracker) SessionClosed() {
	atomic.AddInt64(&s.sessions, -1)
	ActiveSessions.Dec()
}

func (s *StatsTracker) EventDropped() {
	atomic.AddUint64(&s.dropped, 1)
}

// EventDelivered records an event that went through the fan-out.
func (s *StatsTracker) EventDelivered(kind, subjectID string, sequence uint64) {
	atomic.AddUint64(&s.delivered, 1)
	atomic.AddUint64(&s.window, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append([]RecentEvent{{
		Kind:      kind,
		SubjectID: subjectID,
		Sequence:  sequence,
		Timestamp: time.Now().Format("15:04:05"),
	}}, s.recent...)
	if len(s.recent) > maxRecentEvents {
		s.recent = s.recent[:maxRecentEvents]
	}
}

// Run refreshes the snapshot until ctx is cancelled.
func (s *StatsTracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Stats tracker stopped")
			return nil
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Refresh recomputes the snapshot now.
func (s *StatsTracker) Refresh() {
	now := time.Now()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.mu.Lock()
	defer s.mu.Unlock()

	if elapsed := now.Sub(s.lastCheck).Seconds(); elapsed > 0 {
		s.latest.EventsPerSecond = float64(atomic.SwapUint64(&s.window, 0)) / elapsed
	}
	s.lastCheck = now
	s.latest.ActiveSessions = atomic.LoadInt64(&s.sessions)
	s.latest.EventsDelivered = atomic.LoadUint64(&s.delivered)
	s.latest.EventsDropped = atomic.LoadUint64(&s.dropped)
	s.latest.AllocMemMb = m.Alloc / 1024 / 1024
	s.latest.NumGC = m.NumGC
	s.latest.Goroutines = runtime.NumGoroutine()
	s.latest.RecentEvents = append([]RecentEvent(nil), s.recent...)
}

func (s *StatsTracker) GetLatest() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
