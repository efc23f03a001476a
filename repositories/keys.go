package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"social-lab/domain"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key layout. Timestamps are zero padded to 19 digits so lexicographical order
// is chronological order, ids break ties when two records share a nanosecond.
const (
	accountPrefix   = "acct:"
	emailPrefix     = "email:"
	postPrefix      = "post:"
	feedPrefix      = "feed:"
	authorPrefix    = "author:"
	followOutPrefix = "follow:out:"
	followInPrefix  = "follow:in:"
	likePrefix      = "like:"
	commentPrefix   = "comment:"
	sequencePrefix  = "seq:"
	maxTimestamp    = "9999999999999999999"
)

func accountKey(id string) []byte { return []byte(accountPrefix + id) }

func emailKey(email string) []byte { return []byte(emailPrefix + email) }

func postKey(id string) []byte { return []byte(postPrefix + id) }

func feedKey(at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", feedPrefix, at.UnixNano(), id))
}

func authorPostsPrefix(authorID string) string {
	return authorPrefix + authorID + ":"
}

func authorKey(authorID string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", authorPostsPrefix(authorID), at.UnixNano(), id))
}

func followOutKey(followerID, followeeID string) []byte {
	return []byte(followOutPrefix + followerID + ":" + followeeID)
}

func followInKey(followeeID, followerID string) []byte {
	return []byte(followInPrefix + followeeID + ":" + followerID)
}

func likeKey(postID, viewerID string) []byte {
	return []byte(likePrefix + postID + ":" + viewerID)
}

func postCommentsPrefix(postID string) string {
	return commentPrefix + postID + ":"
}

func commentKey(c domain.Comment) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", postCommentsPrefix(c.PostID), c.CreatedAt.UnixNano(), c.ID))
}

func sequenceKey(subjectID string) []byte { return []byte(sequencePrefix + subjectID) }

// bumpSequence increments the subject sequence inside the caller's transaction so
// the sequence is committed atomically with the mutation it numbers.
func bumpSequence(txn *badger.Txn, subjectID string) (uint64, error) {
	current, err := readSequence(txn, subjectID)
	if err != nil {
		return 0, err
	}
	next := current + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err = txn.Set(sequenceKey(subjectID), buf); err != nil {
		return 0, err
	}
	return next, nil
}

func readSequence(txn *badger.Txn, subjectID string) (uint64, error) {
	item, err := txn.Get(sequenceKey(subjectID))
	switch {
	case err == badger.ErrKeyNotFound:
		return 0, nil
	case err != nil:
		return 0, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupted sequence for %s", subjectID)
		}
		seq = binary.BigEndian.Uint64(val)
		return nil
	})
	return seq, err
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return jsonUnmarshal(val, v)
	})
}

func jsonUnmarshal(val []byte, v any) error {
	if err := json.Unmarshal(val, v); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}
	return nil
}

// countPrefix counts keys under prefix without loading values.
func countPrefix(txn *badger.Txn, prefix []byte) int {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}
