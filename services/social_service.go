package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/feed"
	"social-lab/graph"
	"social-lab/media"
	"social-lab/moderation"
	"social-lab/repositories"
	"social-lab/search"
	"social-lab/toggle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ toggle.Authority = (*SocialService)(nil)

// Searcher finds post and account ids by free text, newest first.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (search.Hits, error)
}

// SocialService is the facade the transport talks to. It checks existence and
// input, then delegates relationship mutations to the graph.
type SocialService struct {
	accounts      repositories.IAccountRepository
	posts         repositories.IPostRepository
	relationships repositories.IRelationshipRepository
	graph         *graph.Graph
	aggregator    *feed.Aggregator
	directory     *Directory
	moderator     *moderation.Moderator
	media         *media.Resolver
	changes       *ChangeFeed
	searcher      Searcher
	searchLimit   int
	log           *slog.Logger
	now           func() time.Time
}

func NewSocialService(
	accounts repositories.IAccountRepository,
	posts repositories.IPostRepository,
	relationships repositories.IRelationshipRepository,
	graph *graph.Graph,
	aggregator *feed.Aggregator,
	directory *Directory,
	moderator *moderation.Moderator,
	media *media.Resolver,
	changes *ChangeFeed,
	searcher Searcher,
	searchLimit int,
	log *slog.Logger,
) *SocialService {
	return &SocialService{
		accounts:      accounts,
		posts:         posts,
		relationships: relationships,
		graph:         graph,
		aggregator:    aggregator,
		directory:     directory,
		moderator:     moderator,
		media:         media,
		changes:       changes,
		searcher:      searcher,
		searchLimit:   searchLimit,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost censors the text and stores the post with its image references in
// order. Blank image references are rejected, never dropped.
func (s *SocialService) CreatePost(ctx context.Context, newPost domain.NewPost) (domain.Post, error) {
	newPost.Text = strings.TrimSpace(newPost.Text)
	newPost.Description = strings.TrimSpace(newPost.Description)
	newPost.Category = strings.TrimSpace(newPost.Category)
	newPost.ImageRefs = lo.Map(newPost.ImageRefs, func(ref string, _ int) string {
		return strings.TrimSpace(ref)
	})
	if err := auth.ValidateNewPost(newPost); err != nil {
		return domain.Post{}, err
	}
	if _, err := s.accounts.GetAccount(newPost.AuthorID); err != nil {
		return domain.Post{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Post{}, err
	}

	text, words := s.moderator.Censor(newPost.Text)
	if len(words) > 0 {
		s.log.Info("Post text censored", "author_id", newPost.AuthorID, "words", len(words))
	}
	description, _ := s.moderator.Censor(newPost.Description)
	post := domain.Post{
		ID:          uuid.NewString(),
		AuthorID:    newPost.AuthorID,
		Text:        text,
		Description: description,
		Category:    newPost.Category,
		ImageRefs:   newPost.ImageRefs,
		CreatedAt:   s.now(),
	}
	if err := s.posts.StorePost(post); err != nil {
		return domain.Post{}, fmt.Errorf("store post: %w", err)
	}
	s.changes.Record(ctx, domain.Change{
		Kind:      domain.ChangePost,
		ActorID:   post.AuthorID,
		SubjectID: post.ID,
		Post:      &post,
		At:        post.CreatedAt,
	})
	return post, nil
}

// Feed returns one page of the global feed personalized for viewerID.
func (s *SocialService) Feed(ctx context.Context, viewerID string, cursor *string) ([]domain.FeedEntry, *string, error) {
	posts, next, err := s.FeedPage(cursor)
	if err != nil {
		return nil, nil, err
	}
	return s.Enrich(ctx, viewerID, posts), next, nil
}

// AuthorFeed returns one page of the posts of authorID.
func (s *SocialService) AuthorFeed(ctx context.Context, viewerID, authorID string, cursor *string) ([]domain.FeedEntry, *string, error) {
	posts, next, err := s.AuthorPage(authorID, cursor)
	if err != nil {
		return nil, nil, err
	}
	return s.Enrich(ctx, viewerID, posts), next, nil
}

// FeedPage reads raw posts only. Callers that must observe the posts before
// their counters are read subscribe in between and then call Enrich.
func (s *SocialService) FeedPage(cursor *string) ([]domain.Post, *string, error) {
	return s.posts.GetFeed(cursor)
}

func (s *SocialService) AuthorPage(authorID string, cursor *string) ([]domain.Post, *string, error) {
	if _, err := s.accounts.GetAccount(authorID); err != nil {
		return nil, nil, err
	}
	return s.posts.GetAuthorPosts(authorID, cursor)
}

// Enrich aggregates posts into feed entries for viewerID.
func (s *SocialService) Enrich(ctx context.Context, viewerID string, posts []domain.Post) []domain.FeedEntry {
	return s.present(s.aggregator.Aggregate(ctx, viewerID, posts))
}

// Post returns a single enriched post.
func (s *SocialService) Post(ctx context.Context, viewerID, postID string) (domain.FeedEntry, error) {
	post, err := s.posts.GetPost(postID)
	if err != nil {
		return domain.FeedEntry{}, err
	}
	return s.Enrich(ctx, viewerID, []domain.Post{post})[0], nil
}

// Search finds posts and accounts whose words start with every term of the
// query. Results are ordered newest first, not by relevance.
func (s *SocialService) Search(ctx context.Context, viewerID, query string) (domain.SearchResult, error) {
	q := domain.SearchQuery{Text: strings.TrimSpace(query)}
	if err := auth.ValidateSearch(q); err != nil {
		return domain.SearchResult{}, err
	}
	hits, err := s.searcher.Search(ctx, q.Text, s.searchLimit)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("search: %w", err)
	}

	posts := make([]domain.Post, 0, len(hits.PostIDs))
	for _, id := range hits.PostIDs {
		post, err := s.posts.GetPost(id)
		if err != nil {
			s.log.Debug("Indexed post unavailable", "post_id", id, "error", err)
			continue
		}
		posts = append(posts, post)
	}
	accounts := make([]domain.AccountSummary, 0, len(hits.AccountIDs))
	for _, id := range hits.AccountIDs {
		summary, err := s.directory.Summary(ctx, id)
		if err != nil {
			s.log.Debug("Indexed account unavailable", "account_id", id, "error", err)
			continue
		}
		accounts = append(accounts, summary)
	}
	return domain.SearchResult{Posts: s.Enrich(ctx, viewerID, posts), Accounts: accounts}, nil
}

// Profile reads the account and its relations for viewerID in one snapshot.
func (s *SocialService) Profile(_ context.Context, viewerID, accountID string) (domain.Profile, error) {
	account, err := s.accounts.GetAccount(accountID)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.profile(account, viewerID), nil
}

// UpdateProfile edits the viewer's own account.
func (s *SocialService) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (domain.Profile, error) {
	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Interests = lo.Uniq(lo.Compact(lo.Map(update.Interests, func(i string, _ int) string {
		return strings.TrimSpace(i)
	})))
	if err := auth.ValidateProfileUpdate(update); err != nil {
		return domain.Profile{}, err
	}
	account, err := s.accounts.UpdateProfile(accountID, update)
	if err != nil {
		return domain.Profile{}, err
	}
	s.changes.Record(ctx, domain.Change{
		Kind:      domain.ChangeProfile,
		ActorID:   accountID,
		SubjectID: accountID,
		Account:   &account,
		Profile:   &update,
		At:        s.now(),
	})
	return s.profile(account, accountID), nil
}

func (s *SocialService) Follow(ctx context.Context, actorID, targetID string) (domain.Ack, error) {
	if _, err := s.accounts.GetAccount(targetID); err != nil {
		return domain.Ack{}, err
	}
	ack, err := s.graph.Follow(ctx, actorID, targetID)
	s.recordEdge(ctx, domain.ChangeFollow, actorID, targetID, err)
	return ack, err
}

func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID string) (domain.Ack, error) {
	ack, err := s.graph.Unfollow(ctx, actorID, targetID)
	s.recordEdge(ctx, domain.ChangeUnfollow, actorID, targetID, err)
	return ack, err
}

func (s *SocialService) Like(ctx context.Context, actorID, postID string) (domain.Ack, error) {
	if _, err := s.posts.GetPost(postID); err != nil {
		return domain.Ack{}, err
	}
	ack, err := s.graph.Like(ctx, actorID, postID)
	s.recordEdge(ctx, domain.ChangeLike, actorID, postID, err)
	return ack, err
}

func (s *SocialService) Unlike(ctx context.Context, actorID, postID string) (domain.Ack, error) {
	ack, err := s.graph.Unlike(ctx, actorID, postID)
	s.recordEdge(ctx, domain.ChangeUnlike, actorID, postID, err)
	return ack, err
}

// Comment censors and records a comment, returning it with the new comment count.
func (s *SocialService) Comment(ctx context.Context, newComment domain.NewComment) (domain.Comment, domain.Ack, error) {
	newComment.Text = strings.TrimSpace(newComment.Text)
	if err := auth.ValidateNewComment(newComment); err != nil {
		return domain.Comment{}, domain.Ack{}, err
	}
	if _, err := s.posts.GetPost(newComment.PostID); err != nil {
		return domain.Comment{}, domain.Ack{}, err
	}

	text, _ := s.moderator.Censor(newComment.Text)
	comment := domain.Comment{
		ID:        uuid.NewString(),
		PostID:    newComment.PostID,
		AuthorID:  newComment.AuthorID,
		Text:      text,
		CreatedAt: s.now(),
	}
	ack, err := s.graph.AddComment(ctx, comment)
	if err != nil {
		return domain.Comment{}, domain.Ack{}, err
	}
	s.changes.Record(ctx, domain.Change{
		Kind:      domain.ChangeComment,
		ActorID:   comment.AuthorID,
		SubjectID: comment.PostID,
		Comment:   &comment,
		At:        comment.CreatedAt,
	})
	return comment, ack, nil
}

// Comments lists the comments of a post, oldest first.
func (s *SocialService) Comments(_ context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.posts.GetPost(postID); err != nil {
		return nil, err
	}
	return s.relationships.GetComments(postID)
}

func (s *SocialService) Followers(ctx context.Context, accountID string) ([]domain.AccountSummary, error) {
	if _, err := s.accounts.GetAccount(accountID); err != nil {
		return nil, err
	}
	return s.graph.Followers(ctx, accountID), nil
}

func (s *SocialService) Following(ctx context.Context, accountID string) ([]domain.AccountSummary, error) {
	if _, err := s.accounts.GetAccount(accountID); err != nil {
		return nil, err
	}
	return s.graph.Following(ctx, accountID), nil
}

func (s *SocialService) profile(account domain.Account, viewerID string) domain.Profile {
	relations := s.graph.ProfileSnapshot(account.ID, viewerID)
	return domain.Profile{
		Account:        s.directory.summarize(account),
		Bio:            account.Bio,
		Interests:      account.Interests,
		FollowerCount:  relations.FollowerCount,
		FollowingCount: relations.FollowingCount,
		IsFollowing:    relations.IsFollowing,
		Sequence:       relations.Sequence,
	}
}

// recordEdge reports a committed edge mutation. Rejected mutations changed nothing.
func (s *SocialService) recordEdge(ctx context.Context, kind domain.ChangeKind, actorID, subjectID string, err error) {
	if err != nil {
		return
	}
	s.changes.Record(ctx, domain.Change{Kind: kind, ActorID: actorID, SubjectID: subjectID, At: s.now()})
}

// present resolves the image references of the entries into URLs.
func (s *SocialService) present(entries []domain.FeedEntry) []domain.FeedEntry {
	for i := range entries {
		entries[i].Post.ImageRefs = s.media.URLs(entries[i].Post.ImageRefs)
	}
	return entries
}

