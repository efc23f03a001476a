package toggle

import (
	"context"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/mocks"
	"social-lab/projection"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFixture(t *testing.T) (*Coordinator, *mocks.MockAuthority, *projection.View) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	authority := mocks.NewMockAuthority(ctrl)
	view := projection.NewView("alice", log, nil)
	view.TrackProfile(domain.Profile{Account: domain.AccountSummary{ID: "bob"}, FollowerCount: 10, Sequence: 4})
	view.LoadFeed([]domain.FeedEntry{{Post: domain.Post{ID: "p1", LikeCount: 3}, IsLiked: true, Sequence: 7}})
	return NewCoordinator(authority, view, log), authority, view
}

func TestCoordinator_Follow_Commits_Authoritative_Count(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)

	// Given the authority accepts the follow
	authority.EXPECT().Follow(gomock.Any(), "alice", "bob").Return(domain.Ack{Count: 11, Sequence: 5}, nil)

	// When alice toggles follow on bob
	outcome, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)

	// Then the view holds the confirmed state and the triple is idle again
	req.NoError(err)
	req.Equal(Outcome{State: domain.Committed, Flag: true, Ack: domain.Ack{Count: 11, Sequence: 5}}, outcome)
	state, _ := view.Profile("bob")
	req.True(state.IsFollowing)
	req.Equal(11, state.FollowerCount)
	req.False(state.Pending)
	req.Equal(domain.Idle, coordinator.State("alice", "bob", domain.ToggleFollow))
}

func TestCoordinator_Unlike_When_Already_Liked(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)

	authority.EXPECT().Unlike(gomock.Any(), "alice", "p1").Return(domain.Ack{Count: 2, Sequence: 8}, nil)

	outcome, err := coordinator.Toggle(context.Background(), "alice", "p1", domain.ToggleLike)

	req.NoError(err)
	req.False(outcome.Flag)
	post, _ := view.Post("p1")
	req.False(post.IsLiked)
	req.Equal(2, post.LikeCount)
}

func TestCoordinator_Failure_Rolls_Back(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)

	authority.EXPECT().Follow(gomock.Any(), "alice", "bob").Return(domain.Ack{}, errors.ErrTransportUnavailable)

	outcome, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)

	req.ErrorIs(err, errors.ErrTransportUnavailable)
	req.Equal(domain.RolledBack, outcome.State)
	req.False(outcome.Flag)
	state, _ := view.Profile("bob")
	req.False(state.IsFollowing)
	req.Equal(10, state.FollowerCount)
	req.False(state.Pending)
}

func TestCoordinator_Rejects_A_Second_Toggle_In_Flight(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)
	release := make(chan struct{})
	entered := make(chan struct{})

	// Given the authority is slow to answer
	authority.EXPECT().Follow(gomock.Any(), "alice", "bob").
		DoAndReturn(func(ctx context.Context, actorID, targetID string) (domain.Ack, error) {
			close(entered)
			<-release
			return domain.Ack{Count: 11, Sequence: 5}, nil
		}).Times(1)

	done := make(chan error)
	go func() {
		_, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)
		done <- err
	}()
	<-entered

	// When the user taps again while the first toggle is pending
	req.Equal(domain.Pending, coordinator.State("alice", "bob", domain.ToggleFollow))
	state, _ := view.Profile("bob")
	req.True(state.IsFollowing)
	req.Equal(11, state.FollowerCount)
	_, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)

	// Then it is refused without touching the authority
	req.ErrorIs(err, errors.ErrToggleInFlight)

	close(release)
	select {
	case err = <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("toggle did not complete")
	}
	req.Equal(domain.Idle, coordinator.State("alice", "bob", domain.ToggleFollow))
}

func TestCoordinator_Discards_Result_For_Unobserved_Subject(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)

	// Given the viewer navigates away while the follow is in flight
	authority.EXPECT().Follow(gomock.Any(), "alice", "bob").
		DoAndReturn(func(ctx context.Context, actorID, targetID string) (domain.Ack, error) {
			view.Untrack("bob")
			return domain.Ack{Count: 11, Sequence: 5}, nil
		})

	outcome, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)

	req.NoError(err)
	req.True(outcome.Discarded)
	req.False(view.Observes("bob"))
}

func TestCoordinator_Discarded_Failure_Is_Still_Reported(t *testing.T) {
	req := require.New(t)
	coordinator, authority, view := newFixture(t)

	// Given the viewer navigates away while a follow the authority rejects is in flight
	authority.EXPECT().Follow(gomock.Any(), "alice", "bob").
		DoAndReturn(func(ctx context.Context, actorID, targetID string) (domain.Ack, error) {
			view.Untrack("bob")
			return domain.Ack{}, errors.ErrAccountNotFound
		})

	// When the answer comes back
	outcome, err := coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleFollow)

	// Then the result is discarded but the error reaches the caller
	req.ErrorIs(err, errors.ErrAccountNotFound)
	req.True(outcome.Discarded)
	req.Equal(domain.Idle, outcome.State)
	req.Equal(domain.Idle, coordinator.State("alice", "bob", domain.ToggleFollow))
}

func TestCoordinator_Requires_Observed_Subject(t *testing.T) {
	req := require.New(t)
	coordinator, _, _ := newFixture(t)

	_, err := coordinator.Toggle(context.Background(), "alice", "carol", domain.ToggleFollow)
	req.ErrorIs(err, errors.ErrSubjectNotObserved)
	req.Equal(domain.Idle, coordinator.State("alice", "carol", domain.ToggleFollow))

	_, err = coordinator.Toggle(context.Background(), "alice", "bob", domain.ToggleKind("SHARE"))
	req.ErrorIs(err, errors.ErrInvalidToggleKind)
}
