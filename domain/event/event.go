package event

import "time"

type Kind string

const (
	Follow       Kind = "FOLLOW"
	Unfollow     Kind = "UNFOLLOW"
	LikeToggled  Kind = "LIKE_TOGGLED"
	CommentAdded Kind = "COMMENT_ADDED"
)

// Event is immutable once emitted.
// Sequence increases monotonically per SubjectID and gates application on subscribers.
type Event struct {
	Kind      Kind      `json:"kind"`
	SubjectID string    `json:"subject_id"`
	Delta     int       `json:"delta"`
	OriginID  string    `json:"origin_id"`
	Sequence  uint64    `json:"sequence"`
	At        time.Time `json:"at"`
	// Node identifies the process that emitted the event, used to avoid replication loops.
	Node string `json:"node,omitempty"`
}

// Key identifies an event for deduplication.
type Key struct {
	SubjectID string
	Sequence  uint64
}

func (e Event) Key() Key {
	return Key{SubjectID: e.SubjectID, Sequence: e.Sequence}
}
