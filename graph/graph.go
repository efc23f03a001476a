// Package graph owns the follow and like edge sets, the comment counters and the
// per-subject sequences. Counters are always derived from the edge indexes.
package graph

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/domain/event"
	"social-lab/errors"
	"social-lab/observability"
	"social-lab/repositories"
	"sync"
	"time"

	"github.com/samber/lo"
)

type edge struct {
	from string
	to   string
}

// Relations is the follow relationship snapshot of one account.
type Relations struct {
	FollowerCount  int
	FollowingCount int
	IsFollowing    bool
	Sequence       uint64
}

type Graph struct {
	mu        sync.RWMutex
	followers map[string][]string // followee -> followers, insertion order
	following map[string][]string // follower -> followees, insertion order
	follows   map[edge]struct{}
	likes     map[string]map[string]struct{} // post -> viewers
	comments  map[string]int
	sequences map[string]uint64

	locks      *subjectLocks
	repository repositories.IRelationshipRepository
	directory  contract.IAccountDirectory
	publisher  contract.IPublisher
	node       string
	log        *slog.Logger
	now        func() time.Time
}

func NewGraph(
	repository repositories.IRelationshipRepository,
	directory contract.IAccountDirectory,
	publisher contract.IPublisher,
	node string,
	log *slog.Logger,
) *Graph {
	return &Graph{
		followers:  make(map[string][]string),
		following:  make(map[string][]string),
		follows:    make(map[edge]struct{}),
		likes:      make(map[string]map[string]struct{}),
		comments:   make(map[string]int),
		sequences:  make(map[string]uint64),
		locks:      newSubjectLocks(),
		repository: repository,
		directory:  directory,
		publisher:  publisher,
		node:       node,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Warm rebuilds the in-memory indexes from persistence, edges in creation order.
func (g *Graph) Warm(ctx context.Context) error {
	follows, err := g.repository.ListFollows()
	if err != nil {
		return fmt.Errorf("list follows: %w", err)
	}
	likes, err := g.repository.ListLikes()
	if err != nil {
		return fmt.Errorf("list likes: %w", err)
	}
	comments, err := g.repository.ListCommentCounts()
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	sequences, err := g.repository.Sequences()
	if err != nil {
		return fmt.Errorf("list sequences: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range follows {
		g.addFollowLocked(e.FollowerID, e.FolloweeID)
	}
	for _, l := range likes {
		g.addLikeLocked(l.ViewerID, l.PostID)
	}
	g.comments = comments
	g.sequences = sequences
	g.log.Info("Relationship graph warmed",
		"follows", len(follows), "likes", len(likes), "subjects", len(sequences))
	return nil
}

// Follow records viewerID -> targetID and returns the new follower count of targetID.
func (g *Graph) Follow(ctx context.Context, viewerID, targetID string) (domain.Ack, error) {
	return g.follow(ctx, viewerID, targetID, g.now(), g.node)
}

func (g *Graph) follow(ctx context.Context, viewerID, targetID string, now time.Time, node string) (domain.Ack, error) {
	if viewerID == targetID {
		return domain.Ack{}, errors.ErrSelfFollow
	}
	unlock := g.locks.Lock(viewerID, targetID)
	defer unlock()

	if g.IsFollowing(viewerID, targetID) {
		g.count(event.Follow, errors.ErrAlreadyFollowing)
		return domain.Ack{}, errors.ErrAlreadyFollowing
	}
	seq, err := g.repository.AddFollow(domain.FollowEdge{FollowerID: viewerID, FolloweeID: targetID, CreatedAt: now})
	if err != nil {
		g.count(event.Follow, err)
		return domain.Ack{}, fmt.Errorf("follow %s: %w", targetID, err)
	}

	g.mu.Lock()
	g.addFollowLocked(viewerID, targetID)
	g.sequences[targetID] = seq
	count := len(g.followers[targetID])
	g.mu.Unlock()

	g.emit(ctx, event.Follow, targetID, +1, viewerID, seq, now, node)
	g.count(event.Follow, nil)
	return domain.Ack{Count: count, Sequence: seq}, nil
}

// Unfollow removes viewerID -> targetID and returns the new follower count of targetID.
func (g *Graph) Unfollow(ctx context.Context, viewerID, targetID string) (domain.Ack, error) {
	return g.unfollow(ctx, viewerID, targetID, g.now(), g.node)
}

func (g *Graph) unfollow(ctx context.Context, viewerID, targetID string, at time.Time, node string) (domain.Ack, error) {
	unlock := g.locks.Lock(viewerID, targetID)
	defer unlock()

	if !g.IsFollowing(viewerID, targetID) {
		g.count(event.Unfollow, errors.ErrNotFollowing)
		return domain.Ack{}, errors.ErrNotFollowing
	}
	seq, err := g.repository.RemoveFollow(viewerID, targetID)
	if err != nil {
		g.count(event.Unfollow, err)
		return domain.Ack{}, fmt.Errorf("unfollow %s: %w", targetID, err)
	}

	g.mu.Lock()
	delete(g.follows, edge{from: viewerID, to: targetID})
	g.followers[targetID] = remove(g.followers[targetID], viewerID)
	g.following[viewerID] = remove(g.following[viewerID], targetID)
	g.sequences[targetID] = seq
	count := len(g.followers[targetID])
	g.mu.Unlock()

	g.emit(ctx, event.Unfollow, targetID, -1, viewerID, seq, at, node)
	g.count(event.Unfollow, nil)
	return domain.Ack{Count: count, Sequence: seq}, nil
}

// Like records that viewerID likes postID and returns the new like count.
func (g *Graph) Like(ctx context.Context, viewerID, postID string) (domain.Ack, error) {
	return g.like(ctx, viewerID, postID, g.now(), g.node)
}

func (g *Graph) like(ctx context.Context, viewerID, postID string, now time.Time, node string) (domain.Ack, error) {
	unlock := g.locks.Lock(postID)
	defer unlock()

	if g.HasLiked(viewerID, postID) {
		g.count(event.LikeToggled, errors.ErrAlreadyLiked)
		return domain.Ack{}, errors.ErrAlreadyLiked
	}
	seq, err := g.repository.AddLike(domain.LikeEdge{ViewerID: viewerID, PostID: postID, CreatedAt: now})
	if err != nil {
		g.count(event.LikeToggled, err)
		return domain.Ack{}, fmt.Errorf("like %s: %w", postID, err)
	}

	g.mu.Lock()
	g.addLikeLocked(viewerID, postID)
	g.sequences[postID] = seq
	count := len(g.likes[postID])
	g.mu.Unlock()

	g.emit(ctx, event.LikeToggled, postID, +1, viewerID, seq, now, node)
	g.count(event.LikeToggled, nil)
	return domain.Ack{Count: count, Sequence: seq}, nil
}

func (g *Graph) Unlike(ctx context.Context, viewerID, postID string) (domain.Ack, error) {
	return g.unlike(ctx, viewerID, postID, g.now(), g.node)
}

func (g *Graph) unlike(ctx context.Context, viewerID, postID string, at time.Time, node string) (domain.Ack, error) {
	unlock := g.locks.Lock(postID)
	defer unlock()

	if !g.HasLiked(viewerID, postID) {
		g.count(event.LikeToggled, errors.ErrNotLiked)
		return domain.Ack{}, errors.ErrNotLiked
	}
	seq, err := g.repository.RemoveLike(viewerID, postID)
	if err != nil {
		g.count(event.LikeToggled, err)
		return domain.Ack{}, fmt.Errorf("unlike %s: %w", postID, err)
	}

	g.mu.Lock()
	delete(g.likes[postID], viewerID)
	if len(g.likes[postID]) == 0 {
		delete(g.likes, postID)
	}
	g.sequences[postID] = seq
	count := len(g.likes[postID])
	g.mu.Unlock()

	g.emit(ctx, event.LikeToggled, postID, -1, viewerID, seq, at, node)
	g.count(event.LikeToggled, nil)
	return domain.Ack{Count: count, Sequence: seq}, nil
}

// AddComment stores the comment and returns the new comment count of its post.
func (g *Graph) AddComment(ctx context.Context, comment domain.Comment) (domain.Ack, error) {
	return g.addComment(ctx, comment, g.node)
}

func (g *Graph) addComment(ctx context.Context, comment domain.Comment, node string) (domain.Ack, error) {
	unlock := g.locks.Lock(comment.PostID)
	defer unlock()

	seq, err := g.repository.AddComment(comment)
	if err != nil {
		g.count(event.CommentAdded, err)
		return domain.Ack{}, fmt.Errorf("comment %s: %w", comment.PostID, err)
	}

	g.mu.Lock()
	g.comments[comment.PostID]++
	g.sequences[comment.PostID] = seq
	count := g.comments[comment.PostID]
	g.mu.Unlock()

	g.emit(ctx, event.CommentAdded, comment.PostID, +1, comment.AuthorID, seq, comment.CreatedAt, node)
	g.count(event.CommentAdded, nil)
	return domain.Ack{Count: count, Sequence: seq}, nil
}

// Replay applies an edge or comment change committed on another node. The
// write goes through the local repository, so the subject gets the next local
// sequence and the event carries the originating node. A change this node
// already holds is a no-op.
func (g *Graph) Replay(ctx context.Context, change domain.Change) error {
	var err error
	switch change.Kind {
	case domain.ChangeFollow:
		_, err = g.follow(ctx, change.ActorID, change.SubjectID, change.At, change.Node)
	case domain.ChangeUnfollow:
		_, err = g.unfollow(ctx, change.ActorID, change.SubjectID, change.At, change.Node)
	case domain.ChangeLike:
		_, err = g.like(ctx, change.ActorID, change.SubjectID, change.At, change.Node)
	case domain.ChangeUnlike:
		_, err = g.unlike(ctx, change.ActorID, change.SubjectID, change.At, change.Node)
	case domain.ChangeComment:
		if change.Comment == nil {
			return fmt.Errorf("%w: comment change without comment", errors.ErrInvalidChange)
		}
		_, err = g.addComment(ctx, *change.Comment, change.Node)
	default:
		return fmt.Errorf("%w: %s is not a graph change", errors.ErrInvalidChange, change.Kind)
	}
	if alreadyApplied(err) {
		g.log.Debug("Replicated change already applied", "kind", change.Kind, "subject_id", change.SubjectID, "node", change.Node)
		return nil
	}
	return err
}

func alreadyApplied(err error) bool {
	for _, known := range []error{
		errors.ErrAlreadyFollowing,
		errors.ErrNotFollowing,
		errors.ErrAlreadyLiked,
		errors.ErrNotLiked,
		errors.ErrCommentRecorded,
	} {
		if stderrors.Is(err, known) {
			return true
		}
	}
	return false
}

// Followers returns the accounts following targetID in the order they followed.
func (g *Graph) Followers(ctx context.Context, targetID string) []domain.AccountSummary {
	g.mu.RLock()
	ids := append([]string(nil), g.followers[targetID]...)
	g.mu.RUnlock()
	return g.summaries(ctx, ids)
}

// Following returns the accounts viewerID follows in the order they were followed.
func (g *Graph) Following(ctx context.Context, viewerID string) []domain.AccountSummary {
	g.mu.RLock()
	ids := append([]string(nil), g.following[viewerID]...)
	g.mu.RUnlock()
	return g.summaries(ctx, ids)
}

func (g *Graph) FollowerCount(accountID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.followers[accountID])
}

func (g *Graph) FollowingCount(accountID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.following[accountID])
}

func (g *Graph) IsFollowing(viewerID, targetID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.follows[edge{from: viewerID, to: targetID}]
	return ok
}

// ProfileSnapshot reads the counters, the follow flag and the sequence of
// accountID as one consistent view.
func (g *Graph) ProfileSnapshot(accountID, viewerID string) Relations {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, following := g.follows[edge{from: viewerID, to: accountID}]
	return Relations{
		FollowerCount:  len(g.followers[accountID]),
		FollowingCount: len(g.following[accountID]),
		IsFollowing:    viewerID != "" && following,
		Sequence:       g.sequences[accountID],
	}
}

func (g *Graph) HasLiked(viewerID, postID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.likes[postID][viewerID]
	return ok
}

// Liked is HasLiked for callers that expect a fallible lookup.
func (g *Graph) Liked(_ context.Context, viewerID, postID string) (bool, error) {
	return g.HasLiked(viewerID, postID), nil
}

func (g *Graph) LikeCount(postID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.likes[postID])
}

func (g *Graph) CommentCount(postID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.comments[postID]
}

// PostStats reads the counters and sequence of a post as one consistent view.
func (g *Graph) PostStats(_ context.Context, postID string) (domain.PostStats, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return domain.PostStats{
		LikeCount:    len(g.likes[postID]),
		CommentCount: g.comments[postID],
		Sequence:     g.sequences[postID],
	}, nil
}

func (g *Graph) Sequence(subjectID string) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sequences[subjectID]
}

func (g *Graph) addFollowLocked(followerID, followeeID string) {
	key := edge{from: followerID, to: followeeID}
	if _, ok := g.follows[key]; ok {
		return
	}
	g.follows[key] = struct{}{}
	g.followers[followeeID] = append(g.followers[followeeID], followerID)
	g.following[followerID] = append(g.following[followerID], followeeID)
}

func (g *Graph) addLikeLocked(viewerID, postID string) {
	viewers, ok := g.likes[postID]
	if !ok {
		viewers = make(map[string]struct{})
		g.likes[postID] = viewers
	}
	viewers[viewerID] = struct{}{}
}

// emit runs while the subject lock is held so events of one subject reach the
// bus in sequence order.
func (g *Graph) emit(_ context.Context, kind event.Kind, subjectID string, delta int, originID string, seq uint64, at time.Time, node string) {
	g.publisher.Publish(event.Event{
		Kind:      kind,
		SubjectID: subjectID,
		Delta:     delta,
		OriginID:  originID,
		Sequence:  seq,
		At:        at,
		Node:      node,
	})
}

func (g *Graph) summaries(ctx context.Context, ids []string) []domain.AccountSummary {
	return lo.Map(ids, func(id string, _ int) domain.AccountSummary {
		summary, err := g.directory.Summary(ctx, id)
		if err != nil {
			g.log.Debug("Account summary unavailable", "account_id", id, "error", err)
			return g.directory.Placeholder(id)
		}
		return summary
	})
}

func (g *Graph) count(kind event.Kind, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	observability.GraphMutations.WithLabelValues(string(kind), result).Inc()
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
