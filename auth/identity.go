package auth

import (
	"fmt"
	"social-lab/errors"
	"strings"
)

// Identity turns a bearer credential into the account it was issued for.
type Identity struct {
	issuer *Issuer
}

func NewIdentity(issuer *Issuer) *Identity {
	return &Identity{issuer: issuer}
}

// Resolve accepts either a raw token or an Authorization header value ("Bearer <token>").
func (id *Identity) Resolve(bearer string) (string, error) {
	token := strings.TrimSpace(bearer)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", fmt.Errorf("%w: token is missing", errors.ErrUnauthenticated)
	}

	claims, err := id.issuer.ValidateToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: token has no subject", errors.ErrUnauthenticated)
	}
	return claims.UserID, nil
}
