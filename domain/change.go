package domain

import "time"

// ChangeKind names a committed write of the system of record.
type ChangeKind string

const (
	ChangeAccount  ChangeKind = "ACCOUNT"
	ChangeProfile  ChangeKind = "PROFILE"
	ChangePost     ChangeKind = "POST"
	ChangeFollow   ChangeKind = "FOLLOW"
	ChangeUnfollow ChangeKind = "UNFOLLOW"
	ChangeLike     ChangeKind = "LIKE"
	ChangeUnlike   ChangeKind = "UNLIKE"
	ChangeComment  ChangeKind = "COMMENT"
)

// Change is a committed write, recorded after the fact by the search index and
// shipped to the other nodes by replication. It carries the data of the write,
// never a sequence: every node numbers the subjects it applies on its own.
type Change struct {
	Kind ChangeKind `json:"kind"`
	// Node is empty for changes committed by this process and names the
	// originating process for replicated ones.
	Node      string         `json:"node,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	SubjectID string         `json:"subject_id,omitempty"`
	Account   *Account       `json:"account,omitempty"`
	Profile   *ProfileUpdate `json:"profile,omitempty"`
	Post      *Post          `json:"post,omitempty"`
	Comment   *Comment       `json:"comment,omitempty"`
	At        time.Time      `json:"at"`
}

// Local reports whether the change was committed by this process.
func (c Change) Local() bool { return c.Node == "" }
