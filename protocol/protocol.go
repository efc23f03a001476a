// Package protocol defines the JSON frames exchanged over a viewer session.
// A client sends Requests; the server answers each with a response Frame carrying
// the same id and pushes event Frames for the subjects the session observes.
package protocol

import (
	"encoding/json"
	"social-lab/domain"
	"social-lab/domain/event"
)

type Op string

const (
	OpProfile       Op = "profile"
	OpFeed          Op = "feed"
	OpAuthorFeed    Op = "author_feed"
	OpOpenPost      Op = "open_post"
	OpUnsubscribe   Op = "unsubscribe"
	OpFollow        Op = "follow"
	OpUnfollow      Op = "unfollow"
	OpLike          Op = "like"
	OpUnlike        Op = "unlike"
	OpComment       Op = "comment"
	OpComments      Op = "comments"
	OpPost          Op = "post"
	OpFollowers     Op = "followers"
	OpFollowing     Op = "following"
	OpUpdateProfile Op = "update_profile"
	OpSearch        Op = "search"
)

type Request struct {
	ID          string                `json:"id"`
	Op          Op                    `json:"op"`
	SubjectID   string                `json:"subject_id,omitempty"`
	Cursor      *string               `json:"cursor,omitempty"`
	Text        string                `json:"text,omitempty"`
	Description string                `json:"description,omitempty"`
	Category    string                `json:"category,omitempty"`
	ImageRefs   []string              `json:"image_refs,omitempty"`
	Profile     *domain.ProfileUpdate `json:"profile,omitempty"`
	Query       string                `json:"query,omitempty"`
}

type FrameType string

const (
	FrameResponse FrameType = "response"
	FrameEvent    FrameType = "event"
)

// Frame is everything the server writes on the socket.
type Frame struct {
	Type  FrameType       `json:"type"`
	ID    string          `json:"id,omitempty"`
	Error *Error          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Event *event.Event    `json:"event,omitempty"`
}

// Error carries a stable code of the error taxonomy.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FeedPage struct {
	Entries []domain.FeedEntry `json:"entries"`
	Next    *string            `json:"next,omitempty"`
}

type CommentResult struct {
	Comment domain.Comment `json:"comment"`
	Ack     domain.Ack     `json:"ack"`
}

// Credentials is the body of the register and login routes.
type Credentials struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name,omitempty"`
}

type SessionToken struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
}

// Response builds a response frame with data marshalled as JSON.
func Response(id string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: FrameResponse, ID: id, Data: raw}, nil
}

func Failure(id, code, message string) Frame {
	return Frame{Type: FrameResponse, ID: id, Error: &Error{Code: code, Message: message}}
}

func EventFrame(e event.Event) Frame {
	return Frame{Type: FrameEvent, Event: &e}
}
