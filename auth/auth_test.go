package auth

import (
	"social-lab/domain"
	"social-lab/errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	req := require.New(t)

	for _, hash := range []string{"", "$bcrypt$x$y$z$w", "$argon2id$v=1$m=1,t=1,p=1$c2FsdA$a2V5", "$argon2id$v=19$m=1,t=1,p=1$!!$a2V5"} {
		match, err := ComparePassword("whatever", hash)
		req.Error(err, hash)
		req.False(match)
	}
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{Email: "test@example.com", Password: "ComplexPass123!"}, false},
		{"Valid request with display name", RegisterRequest{Email: "test@example.com", Password: "ComplexPass123!", DisplayName: "Test"}, false},
		{"Invalid email", RegisterRequest{Email: "notanemail", Password: "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{Email: "test@example.com", Password: "Short1!"}, true},
		{"Missing digit", RegisterRequest{Email: "test@example.com", Password: "NoDigitPass!"}, true},
		{"Missing special char", RegisterRequest{Email: "test@example.com", Password: "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{Email: "test@example.com", Password: "nouppercase123!"}, true},
		{"Password too long (edge case)", RegisterRequest{Email: "test@example.com", Password: strings.Repeat("a", 73)}, true},
		{"Display name too long", RegisterRequest{Email: "test@example.com", Password: "ComplexPass123!", DisplayName: strings.Repeat("x", 65)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestContentValidation(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateNewPost(domain.NewPost{AuthorID: "alice", Text: "hello"}))
	req.NoError(ValidateNewPost(domain.NewPost{AuthorID: "alice", Text: "look", ImageRefs: []string{"a.jpg", "b.jpg"}}))
	req.ErrorIs(ValidateNewPost(domain.NewPost{AuthorID: "alice", Text: "   "}), errors.ErrInvalidInput)
	req.ErrorIs(ValidateNewPost(domain.NewPost{Text: "no author"}), errors.ErrInvalidInput)
	req.ErrorIs(ValidateNewPost(domain.NewPost{AuthorID: "alice", Text: strings.Repeat("a", 2001)}), errors.ErrInvalidInput)

	req.NoError(ValidateNewComment(domain.NewComment{PostID: "p1", AuthorID: "bob", Text: "nice"}))
	req.ErrorIs(ValidateNewComment(domain.NewComment{PostID: "p1", AuthorID: "bob", Text: ""}), errors.ErrInvalidInput)

	req.NoError(ValidateProfileUpdate(domain.ProfileUpdate{DisplayName: "Alice", Interests: []string{"go"}}))
	req.ErrorIs(ValidateProfileUpdate(domain.ProfileUpdate{DisplayName: ""}), errors.ErrInvalidInput)
}

func TestIssuer_RoundTrip(t *testing.T) {
	req := require.New(t)
	issuer := NewIssuer("a-test-secret-that-is-long-enough", time.Hour)

	token, err := issuer.GenerateToken("alice", []string{"user"})
	req.NoError(err)

	claims, err := issuer.ValidateToken(token)
	req.NoError(err)
	req.Equal("alice", claims.UserID)
	req.Equal([]string{"user"}, claims.Roles)
}

func TestIssuer_Rejects_Foreign_Secret(t *testing.T) {
	req := require.New(t)
	token, err := NewIssuer("first-secret", time.Hour).GenerateToken("alice", nil)
	req.NoError(err)

	_, err = NewIssuer("second-secret", time.Hour).ValidateToken(token)

	req.Error(err)
}

func TestIdentity_Resolve(t *testing.T) {
	req := require.New(t)
	issuer := NewIssuer("identity-secret", time.Hour)
	identity := NewIdentity(issuer)
	token, err := issuer.GenerateToken("alice", []string{"user"})
	req.NoError(err)

	// Raw token and header form both resolve
	id, err := identity.Resolve(token)
	req.NoError(err)
	req.Equal("alice", id)

	id, err = identity.Resolve("Bearer " + token)
	req.NoError(err)
	req.Equal("alice", id)

	// Missing and garbage credentials are unauthenticated
	_, err = identity.Resolve("")
	req.ErrorIs(err, errors.ErrUnauthenticated)

	_, err = identity.Resolve("Bearer not.a.token")
	req.ErrorIs(err, errors.ErrUnauthenticated)
}

func TestIdentity_Resolve_Expired(t *testing.T) {
	req := require.New(t)
	issuer := NewIssuer("identity-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.GenerateToken("alice", nil)
	req.NoError(err)
	issuer.now = time.Now

	_, err = NewIdentity(issuer).Resolve(token)

	req.ErrorIs(err, errors.ErrUnauthenticated)
}

// BenchmarkHashPassword measures the CPU/RAM cost of hashing
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
