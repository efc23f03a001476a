// Package domain contains core concepts of the social feed.
// This file defines Account entities and their read projections.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Account is owned by the identity collaborator. The core only reads it,
// except for the profile fields a viewer may edit on their own account.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarRef    string
	Bio          string
	Interests    []string
	Roles        []string
	CreatedAt    time.Time
}

// AccountSummary is the denormalized author snapshot embedded in feeds and lists.
type AccountSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Profile is what a viewer sees when opening an account page.
// Sequence is the subject sequence at the time the counters were read.
type Profile struct {
	Account        AccountSummary `json:"account"`
	Bio            string         `json:"bio"`
	Interests      []string       `json:"interests"`
	FollowerCount  int            `json:"follower_count"`
	FollowingCount int            `json:"following_count"`
	IsFollowing    bool           `json:"is_following"`
	Sequence       uint64         `json:"sequence"`
}

// ProfileUpdate carries the editable fields of an account.
type ProfileUpdate struct {
	DisplayName string   `json:"display_name" validate:"required,min=1,max=64"`
	Bio         string   `json:"bio" validate:"max=280"`
	AvatarRef   string   `json:"avatar_ref" validate:"max=512"`
	Interests   []string `json:"interests" validate:"max=20,dive,min=1,max=32"`
}
