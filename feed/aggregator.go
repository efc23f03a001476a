//go:generate go run go.uber.org/mock/mockgen -source=aggregator.go -destination=../mocks/mock_feed.go -package=mocks
// Package feed turns raw posts into a feed personalized for one viewer.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/observability"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Relations answers the per-viewer and per-post questions of enrichment.
type Relations interface {
	Liked(ctx context.Context, viewerID, postID string) (bool, error)
	PostStats(ctx context.Context, postID string) (domain.PostStats, error)
}

type Aggregator struct {
	directory   contract.IAccountDirectory
	relations   Relations
	concurrency int
	log         *slog.Logger
}

func NewAggregator(directory contract.IAccountDirectory, relations Relations, concurrency int, log *slog.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{directory: directory, relations: relations, concurrency: concurrency, log: log}
}

// Aggregate enriches posts for viewerID with at most concurrency lookups in
// flight. The output has one entry per post, in input order, whatever the
// completion order. A failed lookup degrades its entry and never the batch.
// An empty viewerID yields unenriched entries.
func (a *Aggregator) Aggregate(ctx context.Context, viewerID string, posts []domain.Post) []domain.FeedEntry {
	entries := make([]domain.FeedEntry, len(posts))
	if viewerID == "" {
		for i, post := range posts {
			entries[i] = domain.FeedEntry{
				Post:   post,
				Author: domain.AccountSummary{ID: post.AuthorID},
			}
		}
		return entries
	}

	start := time.Now()
	defer func() {
		observability.FeedAggregationDuration.Observe(time.Since(start).Seconds())
	}()

	authors := newAuthorCache(a.directory)
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, post := range posts {
		g.Go(func() error {
			entries[i] = a.enrich(ctx, viewerID, post, authors)
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

func (a *Aggregator) enrich(ctx context.Context, viewerID string, post domain.Post, authors *authorCache) domain.FeedEntry {
	entry := domain.FeedEntry{Post: post, Enriched: true}

	author, err := authors.get(ctx, post.AuthorID)
	if err != nil {
		a.fail("author", post, err)
		author = a.directory.Placeholder(post.AuthorID)
		entry.Enriched = false
	}
	entry.Author = author

	liked, err := a.relations.Liked(ctx, viewerID, post.ID)
	if err != nil {
		a.fail("like", post, err)
	}
	entry.IsLiked = liked

	stats, err := a.relations.PostStats(ctx, post.ID)
	if err != nil {
		a.fail("stats", post, err)
	} else {
		entry.Post.LikeCount = stats.LikeCount
		entry.Post.CommentCount = stats.CommentCount
		entry.Sequence = stats.Sequence
	}
	return entry
}

func (a *Aggregator) fail(lookup string, post domain.Post, err error) {
	observability.EnrichmentFailures.WithLabelValues(lookup).Inc()
	a.log.Warn("Feed entry degraded",
		"error", fmt.Errorf("%w: %s: %w", errors.ErrEnrichmentPartialFailure, lookup, err),
		"post_id", post.ID, "author_id", post.AuthorID)
}

// authorCache resolves each author once per batch: concurrent lookups share one
// call and later lookups reuse its result.
type authorCache struct {
	directory contract.IAccountDirectory
	group     singleflight.Group
	mu        sync.Mutex
	resolved  map[string]authorResult
}

type authorResult struct {
	summary domain.AccountSummary
	err     error
}

func newAuthorCache(directory contract.IAccountDirectory) *authorCache {
	return &authorCache{directory: directory, resolved: make(map[string]authorResult)}
}

func (c *authorCache) get(ctx context.Context, authorID string) (domain.AccountSummary, error) {
	if r, ok := c.cached(authorID); ok {
		return r.summary, r.err
	}

	v, err, _ := c.group.Do(authorID, func() (any, error) {
		// A call that just finished may have filled the cache.
		if r, ok := c.cached(authorID); ok {
			return r.summary, r.err
		}
		summary, err := c.directory.Summary(ctx, authorID)
		c.mu.Lock()
		c.resolved[authorID] = authorResult{summary: summary, err: err}
		c.mu.Unlock()
		return summary, err
	})
	if err != nil {
		return domain.AccountSummary{}, err
	}
	return v.(domain.AccountSummary), nil
}

func (c *authorCache) cached(authorID string) (authorResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.resolved[authorID]
	return r, ok
}
