//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IPostRepository interface {
	StorePost(post domain.Post) error
	GetPost(id string) (domain.Post, error)
	GetFeed(cursor *string) ([]domain.Post, *string, error)
	GetAuthorPosts(authorID string, cursor *string) ([]domain.Post, *string, error)
	ListPosts() ([]domain.Post, error)
}

type PostRepository struct {
	db        *badger.DB
	log       *slog.Logger
	limitPage *int
}

func NewPostRepository(db *badger.DB, log *slog.Logger, limitPage *int) PostRepository {
	return PostRepository{db: db, log: log, limitPage: limitPage}
}

type diskPost struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	Text        string   `json:"text"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	ImageRefs   []string `json:"image_refs"`
	At          int64    `json:"at"`
}

// StorePost persists the post body and its two time-ordered indexes:
// "feed:{timestamp_padded}:{id}" for the global feed and
// "author:{author_id}:{timestamp_padded}:{id}" for profile pages.
// Counters are not stored here, they belong to the relationship graph.
func (p PostRepository) StorePost(post domain.Post) error {
	d := diskPost{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Text:        post.Text,
		Description: post.Description,
		Category:    post.Category,
		ImageRefs:   post.ImageRefs,
		At:          post.CreatedAt.UnixNano(),
	}
	return p.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, postKey(post.ID), d); err != nil {
			return err
		}
		if err := txn.Set(feedKey(post.CreatedAt, post.ID), []byte(post.ID)); err != nil {
			return err
		}
		return txn.Set(authorKey(post.AuthorID, post.CreatedAt, post.ID), []byte(post.ID))
	})
}

func (p PostRepository) GetPost(id string) (domain.Post, error) {
	var d diskPost
	err := p.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, postKey(id), &d)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Post{}, errors.ErrPostNotFound
	}
	if err != nil {
		return domain.Post{}, err
	}
	return toPost(d), nil
}

// ListPosts returns every stored post, unpaged, in key order.
func (p PostRepository) ListPosts() ([]domain.Post, error) {
	var posts []domain.Post
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(postPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d diskPost
			err := it.Item().Value(func(val []byte) error {
				return jsonUnmarshal(val, &d)
			})
			if err != nil {
				return err
			}
			posts = append(posts, toPost(d))
		}
		return nil
	})
	return posts, err
}

// GetFeed returns the newest posts first, starting after cursor when given.
func (p PostRepository) GetFeed(cursor *string) ([]domain.Post, *string, error) {
	return p.scan(feedPrefix, cursor)
}

func (p PostRepository) GetAuthorPosts(authorID string, cursor *string) ([]domain.Post, *string, error) {
	return p.scan(authorPostsPrefix(authorID), cursor)
}

// scan walks an index in reverse so the newest posts come first.
// The returned cursor is the key suffix of the last post read.
func (p PostRepository) scan(prefixStr string, cursor *string) ([]domain.Post, *string, error) {
	var posts []domain.Post
	var lastKey string
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(prefixStr), []byte(maxTimestamp)...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if p.limitPage != nil && len(posts) == *p.limitPage {
				p.log.Debug(fmt.Sprintf("Maximum of %d posts reached", *p.limitPage))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var d diskPost
			if err = getJSON(txn, postKey(string(id)), &d); err != nil {
				return err
			}
			posts = append(posts, toPost(d))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, &lastKey, nil
}

func toPost(d diskPost) domain.Post {
	return domain.Post{
		ID:          d.ID,
		AuthorID:    d.AuthorID,
		Text:        d.Text,
		Description: d.Description,
		Category:    d.Category,
		ImageRefs:   d.ImageRefs,
		CreatedAt:   time.Unix(0, d.At).UTC(),
	}
}
