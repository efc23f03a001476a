package test

import (
	"context"
	"log/slog"
	"social-lab/domain/event"
	"social-lab/internal"
	"social-lab/mocks"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfig(dir string) internal.Config {
	return internal.Config{
		Host:                 "127.0.0.1",
		Port:                 0,
		LogLevel:             "DEBUG",
		NodeID:               "node-test",
		BadgerFilepath:       dir,
		JWTSecret:            "integration-secret",
		AuthTokenDuration:    time.Hour,
		BufferSize:           100,
		ConnectionBufferSize: 100,
		SinkTimeout:          time.Second,
		MetricInterval:       50 * time.Millisecond,
		LatencyThreshold:     time.Second,
		LimitPosts:           20,
		FeedConcurrency:      4,
		CharReplacement:      "*",
		SessionRateLimit:     100,
		SessionRateBurst:     100,
		AuthRateLimit:        100,
		AuthRateBurst:        100,
		NatsSubject:          "social.changes",
	}
}

func Test_Scenario(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := require.New(t)
	// Reduced to 16 Mo for testing
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	defer func() { _ = db.Close() }()

	// 1. Create channel to wait for a signal at the end of process
	done := make(chan struct{})
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	app, err := internal.NewApp(ctx, newConfig(t.TempDir()), db, log)
	req.NoError(err)
	app.Start(ctx)
	defer app.Stop()

	alice, bob := uuid.NewString(), uuid.NewString()

	// 2. A viewer observes Bob's profile
	ctrl := gomock.NewController(t)
	mockViewer := mocks.NewMockEventSink(ctrl)
	mockViewer.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e event.Event) {
			req.Equal(event.Follow, e.Kind)
			req.Equal(bob, e.SubjectID)
			req.Equal(alice, e.OriginID)
			req.Equal(uint64(1), e.Sequence)
			req.Equal("node-test", e.Node)
			close(done)
		}).
		Return(nil).
		Times(1)
	app.Bus.Subscribe("viewer-1", bob, mockViewer)

	// 3. Alice follows Bob
	ack, err := app.Graph.Follow(ctx, alice, bob)
	req.NoError(err)
	req.Equal(1, ack.Count)
	req.Equal(uint64(1), ack.Sequence)

	// 4. The follow reaches the observer
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout: the follow event never reached the viewer")
	}

	// 5. The activity sink accounted for the delivery
	req.Eventually(func() bool {
		app.Stats.Refresh()
		return app.Stats.GetLatest().EventsDelivered >= 1
	}, 2*time.Second, 20*time.Millisecond)
}

// loopback delivers every published message to every subscriber, in publish order.
type loopback struct {
	mu       sync.Mutex
	handlers []nats.MsgHandler
}

func (l *loopback) PublishMsg(m *nats.Msg) error {
	l.mu.Lock()
	handlers := append([]nats.MsgHandler(nil), l.handlers...)
	l.mu.Unlock()
	for _, handle := range handlers {
		handle(m)
	}
	return nil
}

func (l *loopback) Subscribe(_ string, cb nats.MsgHandler) (*nats.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, cb)
	return &nats.Subscription{}, nil
}

func (l *loopback) subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

func openNode(t *testing.T, ctx context.Context, node string, hub *loopback) *internal.App {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	config := newConfig(t.TempDir())
	config.NodeID = node
	app, err := internal.NewApp(ctx, config, db, logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	app.Replicate(hub, config.NatsSubject)
	app.Start(ctx)
	t.Cleanup(app.Stop)
	return app
}

func Test_Two_Nodes_Converge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := require.New(t)
	hub := &loopback{}

	// 1. Two nodes, each with its own store, replicating through the same subject
	nodeA := openNode(t, ctx, "node-a", hub)
	nodeB := openNode(t, ctx, "node-b", hub)
	req.Eventually(func() bool { return hub.subscribers() == 2 }, 2*time.Second, 10*time.Millisecond)

	// 2. Accounts registered on either node exist on both
	bob, err := nodeA.Auth.Register("bob@example.com", "ComplexPass123!", "Bob")
	req.NoError(err)
	carol, err := nodeA.Auth.Register("carol@example.com", "ComplexPass123!", "Carol")
	req.NoError(err)
	dave, err := nodeB.Auth.Register("dave@example.com", "ComplexPass123!", "Dave")
	req.NoError(err)

	// 3. A viewer connected to node B observes Bob
	ctrl := gomock.NewController(t)
	received := make(chan event.Event, 2)
	viewer := mocks.NewMockEventSink(ctrl)
	viewer.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			received <- e
			return nil
		}).
		Times(2)
	nodeB.Bus.Subscribe("viewer-b", bob.AccountID, viewer)

	// 4. Carol follows Bob on node A, Dave follows Bob on node B
	ack, err := nodeA.Social.Follow(ctx, carol.AccountID, bob.AccountID)
	req.NoError(err)
	req.Equal(uint64(1), ack.Sequence)
	ack, err = nodeB.Social.Follow(ctx, dave.AccountID, bob.AccountID)
	req.NoError(err)
	req.Equal(2, ack.Count)
	req.Equal(uint64(2), ack.Sequence)

	// 5. Both nodes hold both edges under the same sequence
	for _, app := range []*internal.App{nodeA, nodeB} {
		req.Equal(2, app.Graph.FollowerCount(bob.AccountID))
		req.True(app.Graph.IsFollowing(carol.AccountID, bob.AccountID))
		req.True(app.Graph.IsFollowing(dave.AccountID, bob.AccountID))
		req.Equal(uint64(2), app.Graph.Sequence(bob.AccountID))
	}

	// 6. The viewer on node B sees a gapless sequence, the first event naming node A
	var events []event.Event
	for len(events) < 2 {
		select {
		case e := <-received:
			events = append(events, e)
		case <-time.After(2 * time.Second):
			t.Fatal("Timeout: follow events never reached the viewer on node B")
		}
	}
	req.Equal([]uint64{1, 2}, []uint64{events[0].Sequence, events[1].Sequence})
	req.Equal("node-a", events[0].Node)
	req.Equal(carol.AccountID, events[0].OriginID)
	req.Equal("node-b", events[1].Node)

	profile, err := nodeB.Social.Profile(ctx, dave.AccountID, bob.AccountID)
	req.NoError(err)
	req.Equal(2, profile.FollowerCount)
	req.True(profile.IsFollowing)
	req.Equal(uint64(2), profile.Sequence)
}
