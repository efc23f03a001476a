package client

import (
	"context"
	"social-lab/domain"
	"social-lab/protocol"
	"social-lab/toggle"
	"sort"
)

// OpenProfile subscribes to accountID and seeds the view with its snapshot.
func (s *Session) OpenProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	var profile domain.Profile
	s.view.Expect(accountID)
	err := s.call(ctx, protocol.Request{Op: protocol.OpProfile, SubjectID: accountID}, func(f protocol.Frame) error {
		if err := into(&profile)(f); err != nil {
			return err
		}
		s.view.TrackProfile(profile)
		return nil
	})
	if err != nil {
		s.view.Untrack(accountID)
		return domain.Profile{}, err
	}
	return profile, nil
}

// OpenFeed loads one page of the global feed and observes its posts.
func (s *Session) OpenFeed(ctx context.Context, cursor *string) (protocol.FeedPage, error) {
	return s.openFeed(ctx, protocol.Request{Op: protocol.OpFeed, Cursor: cursor})
}

// OpenAuthorFeed loads one page of the posts of authorID and observes them.
func (s *Session) OpenAuthorFeed(ctx context.Context, authorID string, cursor *string) (protocol.FeedPage, error) {
	return s.openFeed(ctx, protocol.Request{Op: protocol.OpAuthorFeed, SubjectID: authorID, Cursor: cursor})
}

// openFeed replaces the cached feed. Posts of the previous page that are not
// shown anymore are untracked unless they were opened on their own; the server
// drops their subscriptions on its side.
func (s *Session) openFeed(ctx context.Context, req protocol.Request) (protocol.FeedPage, error) {
	var page protocol.FeedPage
	err := s.call(ctx, req, func(f protocol.Frame) error {
		if err := into(&page)(f); err != nil {
			return err
		}
		for _, postID := range s.view.LoadFeed(page.Entries) {
			if !s.isOpened(postID) {
				s.view.Untrack(postID)
			}
		}
		return nil
	})
	if err != nil {
		return protocol.FeedPage{}, err
	}
	s.mu.Lock()
	s.feedReq = &req
	s.mu.Unlock()
	return page, nil
}

// OpenPost subscribes to a single post and seeds the view with its snapshot.
// The post stays observed across feed pages until CloseSubject.
func (s *Session) OpenPost(ctx context.Context, postID string) (domain.FeedEntry, error) {
	var entry domain.FeedEntry
	s.view.Expect(postID)
	err := s.call(ctx, protocol.Request{Op: protocol.OpOpenPost, SubjectID: postID}, func(f protocol.Frame) error {
		if err := into(&entry)(f); err != nil {
			return err
		}
		s.view.TrackPost(entry)
		s.mu.Lock()
		s.opened[postID] = struct{}{}
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		if !s.isOpened(postID) && !s.view.InFeed(postID) {
			s.view.Untrack(postID)
		}
		return domain.FeedEntry{}, err
	}
	return entry, nil
}

// CloseSubject stops observing a profile or a post. A post still on the
// current feed page keeps being observed.
func (s *Session) CloseSubject(ctx context.Context, subjectID string) error {
	s.mu.Lock()
	delete(s.opened, subjectID)
	s.mu.Unlock()
	if !s.view.InFeed(subjectID) {
		s.view.Untrack(subjectID)
	}
	return s.call(ctx, protocol.Request{Op: protocol.OpUnsubscribe, SubjectID: subjectID}, nil)
}

func (s *Session) isOpened(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.opened[postID]
	return ok
}

func (s *Session) ToggleFollow(ctx context.Context, accountID string) (toggle.Outcome, error) {
	return s.coordinator.Toggle(ctx, s.accountID, accountID, domain.ToggleFollow)
}

func (s *Session) ToggleLike(ctx context.Context, postID string) (toggle.Outcome, error) {
	return s.coordinator.Toggle(ctx, s.accountID, postID, domain.ToggleLike)
}

func (s *Session) Comment(ctx context.Context, postID, text string) (domain.Comment, domain.Ack, error) {
	var result protocol.CommentResult
	err := s.call(ctx, protocol.Request{Op: protocol.OpComment, SubjectID: postID, Text: text}, into(&result))
	return result.Comment, result.Ack, err
}

func (s *Session) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.call(ctx, protocol.Request{Op: protocol.OpComments, SubjectID: postID}, into(&comments))
	return comments, err
}

// CreatePost publishes a post authored by the session owner. AuthorID is ignored.
func (s *Session) CreatePost(ctx context.Context, post domain.NewPost) (domain.Post, error) {
	var created domain.Post
	err := s.call(ctx, protocol.Request{
		Op:          protocol.OpPost,
		Text:        post.Text,
		Description: post.Description,
		Category:    post.Category,
		ImageRefs:   post.ImageRefs,
	}, into(&created))
	return created, err
}

// Search returns posts and accounts matching query, newest first.
func (s *Session) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	var result domain.SearchResult
	err := s.call(ctx, protocol.Request{Op: protocol.OpSearch, Query: query}, into(&result))
	return result, err
}

func (s *Session) Followers(ctx context.Context, accountID string) ([]domain.AccountSummary, error) {
	var list []domain.AccountSummary
	err := s.call(ctx, protocol.Request{Op: protocol.OpFollowers, SubjectID: accountID}, into(&list))
	return list, err
}

func (s *Session) Following(ctx context.Context, accountID string) ([]domain.AccountSummary, error) {
	var list []domain.AccountSummary
	err := s.call(ctx, protocol.Request{Op: protocol.OpFollowing, SubjectID: accountID}, into(&list))
	return list, err
}

func (s *Session) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	var profile domain.Profile
	err := s.call(ctx, protocol.Request{Op: protocol.OpUpdateProfile, Profile: &update}, into(&profile))
	return profile, err
}

// Resync refetches every observed profile, every opened post and the last feed
// page opened.
func (s *Session) Resync(ctx context.Context) error {
	for _, subjectID := range s.view.Subjects() {
		if _, ok := s.view.Profile(subjectID); !ok {
			continue
		}
		if _, err := s.OpenProfile(ctx, subjectID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	req := s.feedReq
	opened := make([]string, 0, len(s.opened))
	for postID := range s.opened {
		opened = append(opened, postID)
	}
	s.mu.Unlock()
	sort.Strings(opened)
	for _, postID := range opened {
		if _, err := s.OpenPost(ctx, postID); err != nil {
			return err
		}
	}
	if req != nil {
		if _, err := s.openFeed(ctx, *req); err != nil {
			return err
		}
	}
	return nil
}
