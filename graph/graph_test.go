package graph

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/domain"
	"social-lab/domain/event"
	"social-lab/errors"
	"social-lab/mocks"
	"social-lab/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingPublisher) Publish(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

type fakeDirectory struct {
	known map[string]string
}

func (f fakeDirectory) Summary(_ context.Context, accountID string) (domain.AccountSummary, error) {
	name, ok := f.known[accountID]
	if !ok {
		return domain.AccountSummary{}, errors.ErrAccountNotFound
	}
	return domain.AccountSummary{ID: accountID, DisplayName: name, AvatarURL: "/media/" + accountID}, nil
}

func (f fakeDirectory) Placeholder(accountID string) domain.AccountSummary {
	return domain.AccountSummary{ID: accountID, DisplayName: domain.UnknownUser, AvatarURL: "/media/" + domain.DefaultAvatar}
}

func newTestGraph(t *testing.T) (*Graph, *recordingPublisher, repositories.RelationshipRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repository := repositories.NewRelationshipRepository(db)
	publisher := &recordingPublisher{}
	directory := fakeDirectory{known: map[string]string{"alice": "Alice", "bob": "Bob", "carol": "Carol"}}
	g := NewGraph(repository, directory, publisher, "node-1", logs.GetLoggerFromLevel(slog.LevelDebug))
	return g, publisher, repository
}

func TestGraph_Follow_Returns_Count_And_Emits_Event(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	// When alice follows bob
	ack, err := g.Follow(ctx, "alice", "bob")

	// Then bob has one follower and one event is emitted on bob
	req.NoError(err)
	req.Equal(domain.Ack{Count: 1, Sequence: 1}, ack)
	req.True(g.IsFollowing("alice", "bob"))
	req.False(g.IsFollowing("bob", "alice"))
	req.Equal(1, g.FollowerCount("bob"))
	req.Equal(1, g.FollowingCount("alice"))

	events := publisher.Events()
	req.Len(events, 1)
	req.Equal(event.Follow, events[0].Kind)
	req.Equal("bob", events[0].SubjectID)
	req.Equal("alice", events[0].OriginID)
	req.Equal(1, events[0].Delta)
	req.Equal(uint64(1), events[0].Sequence)
	req.Equal("node-1", events[0].Node)
}

func TestGraph_Follow_Rejections_Do_Not_Emit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	_, err := g.Follow(ctx, "alice", "alice")
	req.ErrorIs(err, errors.ErrSelfFollow)

	_, err = g.Follow(ctx, "alice", "bob")
	req.NoError(err)
	_, err = g.Follow(ctx, "alice", "bob")
	req.ErrorIs(err, errors.ErrAlreadyFollowing)

	_, err = g.Unfollow(ctx, "carol", "bob")
	req.ErrorIs(err, errors.ErrNotFollowing)

	req.Len(publisher.Events(), 1)
	req.Equal(1, g.FollowerCount("bob"))
}

func TestGraph_Unfollow(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	_, err := g.Follow(ctx, "alice", "bob")
	req.NoError(err)
	ack, err := g.Unfollow(ctx, "alice", "bob")
	req.NoError(err)
	req.Equal(domain.Ack{Count: 0, Sequence: 2}, ack)
	req.False(g.IsFollowing("alice", "bob"))
	req.Zero(g.FollowingCount("alice"))

	events := publisher.Events()
	req.Len(events, 2)
	req.Equal(event.Unfollow, events[1].Kind)
	req.Equal(-1, events[1].Delta)
}

func TestGraph_Followers_Keep_Insertion_Order_With_Placeholders(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, _, _ := newTestGraph(t)

	// Given carol, a deleted account and alice following bob in that order
	for _, follower := range []string{"carol", "ghost", "alice"} {
		_, err := g.Follow(ctx, follower, "bob")
		req.NoError(err)
	}

	// When listing followers
	followers := g.Followers(ctx, "bob")

	// Then order is preserved and the unknown account gets a placeholder
	req.Len(followers, 3)
	req.Equal("Carol", followers[0].DisplayName)
	req.Equal(domain.UnknownUser, followers[1].DisplayName)
	req.Equal("ghost", followers[1].ID)
	req.Equal("Alice", followers[2].DisplayName)

	following := g.Following(ctx, "carol")
	req.Len(following, 1)
	req.Equal("bob", following[0].ID)
}

func TestGraph_Counters_Match_Edges_Under_Concurrency(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	// Given 50 viewers racing to follow then unfollow the same target
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		viewer := fmt.Sprintf("viewer-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.Follow(ctx, viewer, "bob")
			if i%2 == 0 {
				_, _ = g.Unfollow(ctx, viewer, "bob")
			}
		}()
	}
	wg.Wait()

	// Then the counter equals the edge count and events are in sequence order
	req.Equal(25, g.FollowerCount("bob"))
	req.Len(g.Followers(ctx, "bob"), 25)
	events := publisher.Events()
	req.Len(events, 75)
	for i, e := range events {
		req.Equal(uint64(i+1), e.Sequence)
	}
	req.Zero(g.locks.size())
}

func TestGraph_Likes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	ack, err := g.Like(ctx, "alice", "p1")
	req.NoError(err)
	req.Equal(domain.Ack{Count: 1, Sequence: 1}, ack)
	req.True(g.HasLiked("alice", "p1"))

	_, err = g.Like(ctx, "alice", "p1")
	req.ErrorIs(err, errors.ErrAlreadyLiked)

	ack, err = g.Like(ctx, "bob", "p1")
	req.NoError(err)
	req.Equal(2, ack.Count)

	ack, err = g.Unlike(ctx, "alice", "p1")
	req.NoError(err)
	req.Equal(domain.Ack{Count: 1, Sequence: 3}, ack)
	req.Equal(1, g.LikeCount("p1"))

	_, err = g.Unlike(ctx, "alice", "p1")
	req.ErrorIs(err, errors.ErrNotLiked)

	events := publisher.Events()
	req.Len(events, 3)
	req.Equal([]int{1, 1, -1}, []int{events[0].Delta, events[1].Delta, events[2].Delta})
	req.Equal(event.LikeToggled, events[2].Kind)
}

func TestGraph_Comments_Share_The_Post_Sequence(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)

	_, err := g.Like(ctx, "alice", "p1")
	req.NoError(err)
	ack, err := g.AddComment(ctx, domain.Comment{ID: "c1", PostID: "p1", AuthorID: "bob", Text: "hi", CreatedAt: time.Now().UTC()})
	req.NoError(err)
	req.Equal(domain.Ack{Count: 1, Sequence: 2}, ack)

	stats, err := g.PostStats(ctx, "p1")
	req.NoError(err)
	req.Equal(domain.PostStats{LikeCount: 1, CommentCount: 1, Sequence: 2}, stats)

	events := publisher.Events()
	req.Equal(event.CommentAdded, events[1].Kind)
	req.Equal("bob", events[1].OriginID)
}

func TestGraph_ProfileSnapshot(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, _, _ := newTestGraph(t)

	_, err := g.Follow(ctx, "alice", "bob")
	req.NoError(err)
	_, err = g.Follow(ctx, "bob", "carol")
	req.NoError(err)

	req.Equal(Relations{FollowerCount: 1, FollowingCount: 1, IsFollowing: true, Sequence: 1}, g.ProfileSnapshot("bob", "alice"))
	req.Equal(Relations{FollowerCount: 1, FollowingCount: 1, Sequence: 1}, g.ProfileSnapshot("bob", ""))
}

func TestGraph_Warm_Rebuilds_From_Persistence(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, _, repository := newTestGraph(t)

	_, err := g.Follow(ctx, "carol", "bob")
	req.NoError(err)
	_, err = g.Follow(ctx, "alice", "bob")
	req.NoError(err)
	_, err = g.Like(ctx, "alice", "p1")
	req.NoError(err)
	_, err = g.AddComment(ctx, domain.Comment{ID: "c1", PostID: "p1", AuthorID: "bob", Text: "hi", CreatedAt: time.Now().UTC()})
	req.NoError(err)

	// When a fresh graph warms from the same store
	warmed := NewGraph(repository, fakeDirectory{known: map[string]string{"alice": "Alice", "carol": "Carol"}},
		&recordingPublisher{}, "node-2", logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(warmed.Warm(ctx))

	// Then indexes, counters and sequences are identical
	req.Equal(2, warmed.FollowerCount("bob"))
	followers := warmed.Followers(ctx, "bob")
	req.Equal("carol", followers[0].ID)
	req.Equal("alice", followers[1].ID)
	req.True(warmed.HasLiked("alice", "p1"))
	stats, err := warmed.PostStats(ctx, "p1")
	req.NoError(err)
	req.Equal(domain.PostStats{LikeCount: 1, CommentCount: 1, Sequence: 2}, stats)
	req.Equal(uint64(2), warmed.Sequence("bob"))
}

func TestGraph_Persistence_Failure_Leaves_Indexes_Untouched(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	repository := mocks.NewMockIRelationshipRepository(ctrl)
	publisher := mocks.NewMockIPublisher(ctrl)
	directory := mocks.NewMockIAccountDirectory(ctrl)
	g := NewGraph(repository, directory, publisher, "node-1", logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given a store that refuses writes
	repository.EXPECT().AddFollow(gomock.Any()).Return(uint64(0), badger.ErrConflict)
	publisher.EXPECT().Publish(gomock.Any()).Times(0)

	// When following
	_, err := g.Follow(ctx, "alice", "bob")

	// Then nothing is recorded nor emitted
	req.ErrorIs(err, badger.ErrConflict)
	req.False(g.IsFollowing("alice", "bob"))
	req.Zero(g.FollowerCount("bob"))
}

func TestGraph_Replay_Resequences_Locally_And_Keeps_The_Origin_Node(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Given a local follow on bob
	_, err := g.Follow(ctx, "alice", "bob")
	req.NoError(err)

	// When a follow committed on node-2 is replayed
	err = g.Replay(ctx, domain.Change{Kind: domain.ChangeFollow, Node: "node-2", ActorID: "carol", SubjectID: "bob", At: at})

	// Then the edge gets the next local sequence and the event names node-2
	req.NoError(err)
	req.Equal(2, g.FollowerCount("bob"))
	req.Equal(uint64(2), g.Sequence("bob"))
	events := publisher.Events()
	req.Len(events, 2)
	req.Equal(uint64(2), events[1].Sequence)
	req.Equal("node-2", events[1].Node)
	req.Equal("carol", events[1].OriginID)
	req.Equal(at, events[1].At)
}

func TestGraph_Replay_Of_A_Change_Already_Held_Is_A_No_Op(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	g, publisher, _ := newTestGraph(t)
	comment := domain.Comment{ID: "c1", PostID: "p1", AuthorID: "bob", Text: "hi", CreatedAt: time.Now().UTC()}

	_, err := g.Follow(ctx, "alice", "bob")
	req.NoError(err)
	_, err = g.AddComment(ctx, comment)
	req.NoError(err)

	req.NoError(g.Replay(ctx, domain.Change{Kind: domain.ChangeFollow, Node: "node-2", ActorID: "alice", SubjectID: "bob"}))
	req.NoError(g.Replay(ctx, domain.Change{Kind: domain.ChangeUnlike, Node: "node-2", ActorID: "alice", SubjectID: "p1"}))
	req.NoError(g.Replay(ctx, domain.Change{Kind: domain.ChangeComment, Node: "node-2", SubjectID: "p1", Comment: &comment}))

	req.Len(publisher.Events(), 2)
	req.Equal(1, g.FollowerCount("bob"))
	req.Equal(1, g.CommentCount("p1"))
}

func TestGraph_Replay_Rejects_Non_Graph_Changes(t *testing.T) {
	req := require.New(t)
	g, _, _ := newTestGraph(t)

	err := g.Replay(context.Background(), domain.Change{Kind: domain.ChangePost, Node: "node-2"})
	req.ErrorIs(err, errors.ErrInvalidChange)

	err = g.Replay(context.Background(), domain.Change{Kind: domain.ChangeComment, Node: "node-2"})
	req.ErrorIs(err, errors.ErrInvalidChange)
}
