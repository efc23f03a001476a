package domain

const (
	UnknownUser   = "Unknown User"
	DefaultAvatar = "default-profile.jpg"
)

// FeedEntry is a read-only projection recomputed per fetch and patched in place by
// event deliveries. It is never persisted.
type FeedEntry struct {
	Post     Post           `json:"post"`
	Author   AccountSummary `json:"author"`
	IsLiked  bool           `json:"is_liked"`
	Sequence uint64         `json:"sequence"`
	// Enriched is false for anonymous viewers and for entries whose author lookup failed.
	Enriched bool `json:"enriched"`
}
