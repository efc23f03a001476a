// Package projection keeps the per-viewer cache of observed subjects.
// It applies events in sequence order, discards duplicates and stale replays,
// and overlays optimistic toggles on top of confirmed state.
// It does not emit events nor talk to the transport.
package projection

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/domain/event"
	"social-lab/errors"
	"sort"
	"sync"
)

const maxBufferedEvents = 1024

type subjectKind int

const (
	unknownSubject subjectKind = iota
	accountSubject
	postSubject
)

// overlay is an optimistic toggle not yet confirmed by the authority.
type overlay struct {
	flag  bool
	delta int
}

type subjectState struct {
	kind        subjectKind
	synced      bool
	stale       bool
	lastApplied uint64
	buffered    []event.Event

	// account subjects
	followers  int
	following  int
	isFollowed bool // owner follows this account

	// post subjects
	likes    int
	comments int
	isLiked  bool // owner likes this post

	pending *overlay
}

func (s *subjectState) flag() bool {
	if s.kind == postSubject {
		return s.isLiked
	}
	return s.isFollowed
}

func (s *subjectState) setFlag(v bool) {
	if s.kind == postSubject {
		s.isLiked = v
		return
	}
	s.isFollowed = v
}

func (s *subjectState) counter() int {
	if s.kind == postSubject {
		return s.likes
	}
	return s.followers
}

func (s *subjectState) setCounter(v int) {
	if s.kind == postSubject {
		s.likes = v
		return
	}
	s.followers = v
}

// displayed returns the toggled flag and counter as the viewer sees them. The
// overlay only counts while the confirmed flag still differs from it, so an
// event from the owner confirming the toggle is never counted twice.
func (s *subjectState) displayed() (bool, int) {
	flag, count := s.flag(), s.counter()
	if s.pending != nil && s.pending.flag != flag {
		return s.pending.flag, count + s.pending.delta
	}
	return flag, count
}

// ProfileState is the displayed state of an observed account.
type ProfileState struct {
	FollowerCount  int
	FollowingCount int
	IsFollowing    bool
	Sequence       uint64
	Pending        bool
	Stale          bool
}

// PostState is the displayed state of an observed post.
type PostState struct {
	LikeCount    int
	CommentCount int
	IsLiked      bool
	Sequence     uint64
	Pending      bool
	Stale        bool
}

var _ contract.EventSink = (*View)(nil)

// View is the cache of one viewer. It is safe for concurrent use.
type View struct {
	mu        sync.Mutex
	owner     string
	subjects  map[string]*subjectState
	feed      []domain.FeedEntry
	feedIndex map[string]int
	onGap     func(subjectID string)
	log       *slog.Logger
}

// NewView builds the cache of owner. onGap is called, outside any lock, when a
// subject misses a sequence and needs a full refetch.
func NewView(owner string, log *slog.Logger, onGap func(subjectID string)) *View {
	if onGap == nil {
		onGap = func(string) {}
	}
	return &View{
		owner:     owner,
		subjects:  make(map[string]*subjectState),
		feedIndex: make(map[string]int),
		onGap:     onGap,
		log:       log,
	}
}

func (v *View) Owner() string { return v.owner }

// Expect prepares a subject that is subscribed but not yet snapshotted. Events
// received until the snapshot is tracked are buffered and replayed after it.
func (v *View) Expect(subjectID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.subjects[subjectID]; !ok {
		v.subjects[subjectID] = &subjectState{}
	}
}

// TrackProfile seeds or refreshes an account subject from a snapshot.
func (v *View) TrackProfile(profile domain.Profile) {
	v.mu.Lock()
	s := v.stateLocked(profile.Account.ID, accountSubject)
	if !s.synced || profile.Sequence >= s.lastApplied {
		s.followers = profile.FollowerCount
		s.following = profile.FollowingCount
		s.isFollowed = profile.IsFollowing
		s.lastApplied = profile.Sequence
		s.stale = false
	}
	gaps := v.syncLocked(profile.Account.ID, s)
	v.mu.Unlock()
	v.notify(gaps)
}

// TrackPost seeds or refreshes a post subject from a single post snapshot.
func (v *View) TrackPost(entry domain.FeedEntry) {
	v.mu.Lock()
	gaps := v.seedPostLocked(entry)
	v.mu.Unlock()
	v.notify(gaps)
}

// LoadFeed replaces the cached feed and seeds every post subject it contains.
// It returns the posts of the previous feed missing from the new one; their
// subjects stay tracked until the caller untracks them.
func (v *View) LoadFeed(entries []domain.FeedEntry) []string {
	v.mu.Lock()
	previous := v.feedIndex
	v.feed = append([]domain.FeedEntry(nil), entries...)
	v.feedIndex = make(map[string]int, len(entries))
	var gaps []string
	for i, entry := range v.feed {
		v.feedIndex[entry.Post.ID] = i
		gaps = append(gaps, v.seedPostLocked(entry)...)
	}
	var dropped []string
	for postID := range previous {
		if _, kept := v.feedIndex[postID]; !kept {
			dropped = append(dropped, postID)
		}
	}
	v.mu.Unlock()
	sort.Strings(dropped)
	v.notify(gaps)
	return dropped
}

// InFeed reports whether postID is part of the cached feed.
func (v *View) InFeed(postID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.feedIndex[postID]
	return ok
}

func (v *View) seedPostLocked(entry domain.FeedEntry) []string {
	postID := entry.Post.ID
	s := v.stateLocked(postID, postSubject)
	if !s.synced || entry.Sequence >= s.lastApplied {
		s.likes = entry.Post.LikeCount
		s.comments = entry.Post.CommentCount
		s.isLiked = entry.IsLiked
		s.lastApplied = entry.Sequence
		s.stale = false
	}
	gaps := v.syncLocked(postID, s)
	v.patchEntryLocked(postID, s)
	return gaps
}

// Untrack forgets a subject. Later events for it are ignored.
func (v *View) Untrack(subjectID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.subjects, subjectID)
}

// Consume applies an event delivered by the bus.
func (v *View) Consume(_ context.Context, e event.Event) error {
	v.Apply(e)
	return nil
}

// Apply reconciles the cache with an event and reports whether it changed
// anything. Events at or below the last applied sequence are discarded.
func (v *View) Apply(e event.Event) bool {
	v.mu.Lock()
	s, ok := v.subjects[e.SubjectID]
	if !ok {
		v.mu.Unlock()
		return false
	}
	if !s.synced {
		if len(s.buffered) >= maxBufferedEvents {
			s.stale = true
			v.mu.Unlock()
			return false
		}
		s.buffered = append(s.buffered, e)
		v.mu.Unlock()
		return false
	}
	applied, gap := v.applyLocked(s, e)
	v.mu.Unlock()
	if gap {
		v.notify([]string{e.SubjectID})
	}
	return applied
}

// BeginOptimistic flips the flag of subjectID in the overlay and returns the
// new flag. The confirmed state is untouched until Commit or Rollback.
func (v *View) BeginOptimistic(subjectID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.subjects[subjectID]
	if !ok || !s.synced {
		return false, errors.ErrSubjectNotObserved
	}
	if s.pending != nil {
		return false, errors.ErrToggleInFlight
	}
	next := !s.flag()
	delta := 1
	if !next {
		delta = -1
	}
	s.pending = &overlay{flag: next, delta: delta}
	return next, nil
}

// Commit confirms the overlay with the authoritative result. The counter is
// replaced by ack.Count unless a newer sequence was already applied.
func (v *View) Commit(subjectID string, ack domain.Ack) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.subjects[subjectID]
	if !ok {
		return errors.ErrSubjectNotObserved
	}
	if s.pending == nil {
		return nil
	}
	if ack.Sequence > s.lastApplied {
		s.setFlag(s.pending.flag)
		s.setCounter(ack.Count)
		s.lastApplied = ack.Sequence
	}
	s.pending = nil
	v.patchEntryLocked(subjectID, s)
	return nil
}

// Rollback drops the overlay, restoring the pre-toggle flag and counter.
func (v *View) Rollback(subjectID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.subjects[subjectID]; ok {
		s.pending = nil
	}
}

// Observes reports whether subjectID is tracked by this view.
func (v *View) Observes(subjectID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.subjects[subjectID]
	return ok
}

func (v *View) Profile(accountID string) (ProfileState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.subjects[accountID]
	if !ok || !s.synced || s.kind != accountSubject {
		return ProfileState{}, false
	}
	flag, count := s.displayed()
	return ProfileState{
		FollowerCount:  count,
		FollowingCount: s.following,
		IsFollowing:    flag,
		Sequence:       s.lastApplied,
		Pending:        s.pending != nil,
		Stale:          s.stale,
	}, true
}

func (v *View) Post(postID string) (PostState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.subjects[postID]
	if !ok || !s.synced || s.kind != postSubject {
		return PostState{}, false
	}
	flag, count := s.displayed()
	return PostState{
		LikeCount:    count,
		CommentCount: s.comments,
		IsLiked:      flag,
		Sequence:     s.lastApplied,
		Pending:      s.pending != nil,
		Stale:        s.stale,
	}, true
}

// Feed returns the cached feed with overlays applied, in load order.
func (v *View) Feed() []domain.FeedEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	entries := append([]domain.FeedEntry(nil), v.feed...)
	for i := range entries {
		s, ok := v.subjects[entries[i].Post.ID]
		if !ok || !s.synced {
			continue
		}
		entries[i].IsLiked, entries[i].Post.LikeCount = s.displayed()
	}
	return entries
}

// Subjects lists every tracked subject.
func (v *View) Subjects() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.subjects))
	for id := range v.subjects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (v *View) stateLocked(subjectID string, kind subjectKind) *subjectState {
	s, ok := v.subjects[subjectID]
	if !ok {
		s = &subjectState{}
		v.subjects[subjectID] = s
	}
	s.kind = kind
	return s
}

// syncLocked marks the subject as snapshotted and replays the buffered events.
func (v *View) syncLocked(subjectID string, s *subjectState) []string {
	s.synced = true
	buffered := s.buffered
	s.buffered = nil
	sort.Slice(buffered, func(i, j int) bool { return buffered[i].Sequence < buffered[j].Sequence })
	var gaps []string
	overflowed := s.stale
	for _, e := range buffered {
		if _, gap := v.applyLocked(s, e); gap {
			overflowed = true
		}
	}
	if overflowed {
		s.stale = true
		gaps = append(gaps, subjectID)
	}
	return gaps
}

func (v *View) applyLocked(s *subjectState, e event.Event) (applied bool, gap bool) {
	if e.Sequence <= s.lastApplied {
		v.log.Debug("Discarding stale event",
			"subject_id", e.SubjectID, "sequence", e.Sequence, "last_applied", s.lastApplied)
		return false, false
	}
	gap = e.Sequence > s.lastApplied+1
	if gap {
		s.stale = true
		v.log.Warn("Sequence gap detected",
			"subject_id", e.SubjectID, "sequence", e.Sequence, "last_applied", s.lastApplied)
	}

	switch e.Kind {
	case event.Follow, event.Unfollow:
		s.followers += e.Delta
		if e.OriginID == v.owner {
			s.isFollowed = e.Kind == event.Follow
		}
	case event.LikeToggled:
		s.likes += e.Delta
		if e.OriginID == v.owner {
			s.isLiked = e.Delta > 0
		}
	case event.CommentAdded:
		s.comments += e.Delta
	default:
		v.log.Debug("Unknown event kind", "kind", e.Kind)
	}
	s.lastApplied = e.Sequence
	v.patchEntryLocked(e.SubjectID, s)
	return true, gap
}

// patchEntryLocked copies the confirmed post counters into its feed entry.
func (v *View) patchEntryLocked(subjectID string, s *subjectState) {
	idx, ok := v.feedIndex[subjectID]
	if !ok || s.kind != postSubject {
		return
	}
	entry := &v.feed[idx]
	entry.Post.LikeCount = s.likes
	entry.Post.CommentCount = s.comments
	entry.IsLiked = s.isLiked
	entry.Sequence = s.lastApplied
}

func (v *View) notify(subjects []string) {
	for _, subjectID := range subjects {
		v.onGap(subjectID)
	}
}
