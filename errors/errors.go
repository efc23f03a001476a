package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Relationship graph
	ErrAlreadyFollowing = fmt.Errorf("already following")
	ErrNotFollowing     = fmt.Errorf("not following")
	ErrSelfFollow       = fmt.Errorf("cannot follow yourself")
	ErrAlreadyLiked     = fmt.Errorf("post already liked")
	ErrNotLiked         = fmt.Errorf("post not liked")
	ErrAccountNotFound  = fmt.Errorf("account not found")
	ErrPostNotFound     = fmt.Errorf("post not found")
	ErrCommentRecorded  = fmt.Errorf("comment already recorded")

	// Replication
	ErrInvalidChange = fmt.Errorf("invalid change")

	// Toggle coordination
	ErrToggleInFlight     = fmt.Errorf("toggle already in flight")
	ErrInvalidToggleKind  = fmt.Errorf("invalid toggle kind")
	ErrSubjectNotObserved = fmt.Errorf("subject is not observed by this viewer")

	// Feed & delivery
	ErrEnrichmentPartialFailure = fmt.Errorf("feed enrichment partially failed")
	ErrTransportUnavailable     = fmt.Errorf("transport unavailable")
	ErrRateLimited              = fmt.Errorf("too many requests")
	ErrUnknownOperation         = fmt.Errorf("unknown operation")

	// Identity
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidInput       = fmt.Errorf("invalid input")
)
