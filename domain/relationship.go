package domain

import "time"

// FollowEdge is directed: Follower follows Followee. Self loops are forbidden.
type FollowEdge struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeEdge exists iff Viewer likes Post.
type LikeEdge struct {
	ViewerID  string    `json:"viewer_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Ack is the authoritative result of a mutation: the counter of the subject after
// the mutation and the subject sequence the mutation was recorded under.
type Ack struct {
	Count    int    `json:"count"`
	Sequence uint64 `json:"sequence"`
}
