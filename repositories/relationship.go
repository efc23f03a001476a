//go:generate go run go.uber.org/mock/mockgen -source=relationship.go -destination=../mocks/mock_relationship_repository.go -package=mocks
package repositories

import (
	"social-lab/domain"
	"social-lab/errors"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// IRelationshipRepository is the system of record for follow edges, like edges and
// comments. Every mutation bumps the sequence of its subject in the same transaction
// and returns the new sequence.
type IRelationshipRepository interface {
	AddFollow(edge domain.FollowEdge) (uint64, error)
	RemoveFollow(followerID, followeeID string) (uint64, error)
	AddLike(edge domain.LikeEdge) (uint64, error)
	RemoveLike(viewerID, postID string) (uint64, error)
	AddComment(comment domain.Comment) (uint64, error)
	GetComments(postID string) ([]domain.Comment, error)
	CountComments(postID string) (int, error)
	CountFollowers(accountID string) (int, error)
	ListFollows() ([]domain.FollowEdge, error)
	ListLikes() ([]domain.LikeEdge, error)
	ListCommentCounts() (map[string]int, error)
	Sequence(subjectID string) (uint64, error)
	Sequences() (map[string]uint64, error)
}

type RelationshipRepository struct {
	db *badger.DB
}

func NewRelationshipRepository(db *badger.DB) RelationshipRepository {
	return RelationshipRepository{db: db}
}

// AddFollow stores "follow:out:{follower}:{followee}" with the edge and the reverse
// index "follow:in:{followee}:{follower}". The sequence of the followee is bumped.
func (r RelationshipRepository) AddFollow(edge domain.FollowEdge) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		out := followOutKey(edge.FollowerID, edge.FolloweeID)
		if _, err := txn.Get(out); err == nil {
			return errors.ErrAlreadyFollowing
		}
		if err := setJSON(txn, out, edge); err != nil {
			return err
		}
		if err := txn.Set(followInKey(edge.FolloweeID, edge.FollowerID), nil); err != nil {
			return err
		}
		var err error
		seq, err = bumpSequence(txn, edge.FolloweeID)
		return err
	})
	return seq, err
}

func (r RelationshipRepository) RemoveFollow(followerID, followeeID string) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		out := followOutKey(followerID, followeeID)
		if _, err := txn.Get(out); err == badger.ErrKeyNotFound {
			return errors.ErrNotFollowing
		} else if err != nil {
			return err
		}
		if err := txn.Delete(out); err != nil {
			return err
		}
		if err := txn.Delete(followInKey(followeeID, followerID)); err != nil {
			return err
		}
		var err error
		seq, err = bumpSequence(txn, followeeID)
		return err
	})
	return seq, err
}

func (r RelationshipRepository) AddLike(edge domain.LikeEdge) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		key := likeKey(edge.PostID, edge.ViewerID)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrAlreadyLiked
		}
		if err := setJSON(txn, key, edge); err != nil {
			return err
		}
		var err error
		seq, err = bumpSequence(txn, edge.PostID)
		return err
	})
	return seq, err
}

func (r RelationshipRepository) RemoveLike(viewerID, postID string) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		key := likeKey(postID, viewerID)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.ErrNotLiked
		} else if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		var err error
		seq, err = bumpSequence(txn, postID)
		return err
	})
	return seq, err
}

// AddComment stores the comment once: a comment already recorded under the same
// key returns ErrCommentRecorded and leaves the sequence untouched.
func (r RelationshipRepository) AddComment(comment domain.Comment) (uint64, error) {
	var seq uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		key := commentKey(comment)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrCommentRecorded
		}
		if err := setJSON(txn, key, comment); err != nil {
			return err
		}
		var err error
		seq, err = bumpSequence(txn, comment.PostID)
		return err
	})
	return seq, err
}

// GetComments returns the comments of a post, oldest first.
func (r RelationshipRepository) GetComments(postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(postCommentsPrefix(postID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c domain.Comment
			err := it.Item().Value(func(val []byte) error {
				return jsonUnmarshal(val, &c)
			})
			if err != nil {
				return err
			}
			comments = append(comments, c)
		}
		return nil
	})
	return comments, err
}

func (r RelationshipRepository) CountComments(postID string) (int, error) {
	var count int
	err := r.db.View(func(txn *badger.Txn) error {
		count = countPrefix(txn, []byte(postCommentsPrefix(postID)))
		return nil
	})
	return count, err
}

func (r RelationshipRepository) CountFollowers(accountID string) (int, error) {
	var count int
	err := r.db.View(func(txn *badger.Txn) error {
		count = countPrefix(txn, []byte(followInPrefix+accountID+":"))
		return nil
	})
	return count, err
}

// ListFollows returns every follow edge ordered by creation time.
func (r RelationshipRepository) ListFollows() ([]domain.FollowEdge, error) {
	var edges []domain.FollowEdge
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(followOutPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var edge domain.FollowEdge
			err := it.Item().Value(func(val []byte) error {
				return jsonUnmarshal(val, &edge)
			})
			if err != nil {
				return err
			}
			edges = append(edges, edge)
		}
		return nil
	})
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CreatedAt.Before(edges[j].CreatedAt)
	})
	return edges, err
}

// ListLikes returns every like edge ordered by creation time.
func (r RelationshipRepository) ListLikes() ([]domain.LikeEdge, error) {
	var edges []domain.LikeEdge
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(likePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var edge domain.LikeEdge
			err := it.Item().Value(func(val []byte) error {
				return jsonUnmarshal(val, &edge)
			})
			if err != nil {
				return err
			}
			edges = append(edges, edge)
		}
		return nil
	})
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CreatedAt.Before(edges[j].CreatedAt)
	})
	return edges, err
}

// ListCommentCounts counts comments per post with a key-only scan.
func (r RelationshipRepository) ListCommentCounts() (map[string]int, error) {
	counts := make(map[string]int)
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		prefix := []byte(commentPrefix)
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rest := strings.TrimPrefix(string(it.Item().Key()), commentPrefix)
			postID, _, found := strings.Cut(rest, ":")
			if found {
				counts[postID]++
			}
		}
		return nil
	})
	return counts, err
}

func (r RelationshipRepository) Sequence(subjectID string) (uint64, error) {
	var seq uint64
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		seq, err = readSequence(txn, subjectID)
		return err
	})
	return seq, err
}

// Sequences returns the last committed sequence of every subject.
func (r RelationshipRepository) Sequences() (map[string]uint64, error) {
	sequences := make(map[string]uint64)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(sequencePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			subjectID := strings.TrimPrefix(string(it.Item().Key()), sequencePrefix)
			seq, err := readSequence(txn, subjectID)
			if err != nil {
				return err
			}
			sequences[subjectID] = seq
		}
		return nil
	})
	return sequences, err
}
