package errors

import (
	stderrors "errors"
)

// codes is the wire representation of the taxonomy.
// Clients translate them back with FromCode so errors.Is keeps working across the socket.
var codes = []struct {
	code string
	err  error
}{
	{"already_following", ErrAlreadyFollowing},
	{"not_following", ErrNotFollowing},
	{"self_follow", ErrSelfFollow},
	{"already_liked", ErrAlreadyLiked},
	{"not_liked", ErrNotLiked},
	{"account_not_found", ErrAccountNotFound},
	{"post_not_found", ErrPostNotFound},
	{"toggle_in_flight", ErrToggleInFlight},
	{"invalid_toggle_kind", ErrInvalidToggleKind},
	{"transport_unavailable", ErrTransportUnavailable},
	{"rate_limited", ErrRateLimited},
	{"unknown_operation", ErrUnknownOperation},
	{"unauthenticated", ErrUnauthenticated},
	{"invalid_credentials", ErrInvalidCredentials},
	{"user_already_exists", ErrUserAlreadyExists},
	{"invalid_password", ErrInvalidPassword},
	{"invalid_input", ErrInvalidInput},
}

const internalCode = "internal"

// Code returns the stable code of the first sentinel found in err's chain.
func Code(err error) string {
	for _, c := range codes {
		if stderrors.Is(err, c.err) {
			return c.code
		}
	}
	return internalCode
}

// FromCode is the inverse of Code. Unknown codes become a plain error carrying the message.
func FromCode(code, message string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	if message == "" {
		message = code
	}
	return stderrors.New(message)
}
