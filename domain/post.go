package domain

import "time"

// Post is a raw post as stored. LikeCount and CommentCount are hydrated from the
// relationship graph on read and are never written by the feed view.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Text         string    `json:"text"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	ImageRefs    []string  `json:"image_refs"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
}

// PostStats is an atomic snapshot of a post subject.
type PostStats struct {
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	Sequence     uint64 `json:"sequence"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type NewPost struct {
	AuthorID    string   `validate:"required"`
	Text        string   `validate:"required,min=1,max=2000"`
	Description string   `validate:"max=2000"`
	Category    string   `validate:"max=64"`
	ImageRefs   []string `validate:"max=10,dive,required,max=512"`
}

type NewComment struct {
	PostID   string `validate:"required"`
	AuthorID string `validate:"required"`
	Text     string `validate:"required,min=1,max=1000"`
}
