package repositories

import (
	"social-lab/domain"
	"social-lab/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_Account_And_Read_By_Email(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openInMemory(t))

	// Given a registered account
	id, err := repository.CreateAccount("Alice@Example.com", "hash", "")
	req.NoError(err)
	req.NotEmpty(id)

	// When reading it back by email with a different case
	account, err := repository.GetAccountByEmail("alice@example.com")

	// Then the account is found and defaults are applied
	req.NoError(err)
	req.Equal(id, account.ID)
	req.Equal("alice", account.DisplayName)
	req.Equal([]string{"user"}, account.Roles)
}

func Test_Create_Account_Twice_Fails(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openInMemory(t))

	_, err := repository.CreateAccount("bob@example.com", "hash", "Bob")
	req.NoError(err)

	_, err = repository.CreateAccount("bob@example.com", "other", "Bobby")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Update_Profile(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openInMemory(t))
	id, err := repository.CreateAccount("carol@example.com", "hash", "Carol")
	req.NoError(err)

	updated, err := repository.UpdateProfile(id, domain.ProfileUpdate{
		DisplayName: "Caroline",
		Bio:         "gardener",
		AvatarRef:   "avatars/carol.png",
		Interests:   []string{"plants", "tea"},
	})
	req.NoError(err)
	req.Equal("Caroline", updated.DisplayName)

	account, err := repository.GetAccount(id)
	req.NoError(err)
	req.Equal("gardener", account.Bio)
	req.Equal("avatars/carol.png", account.AvatarRef)
	req.Equal([]string{"plants", "tea"}, account.Interests)
	req.Equal("hash", account.PasswordHash)
}

func Test_Unknown_Account(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openInMemory(t))

	_, err := repository.GetAccount("nobody")
	req.ErrorIs(err, errors.ErrAccountNotFound)

	_, err = repository.GetAccountByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrAccountNotFound)

	_, err = repository.UpdateProfile("nobody", domain.ProfileUpdate{DisplayName: "x"})
	req.ErrorIs(err, errors.ErrAccountNotFound)
}

func Test_Import_Account_From_Another_Node(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openInMemory(t))
	remote := domain.Account{
		ID:           "acct-remote",
		Email:        "Dave@Example.com",
		PasswordHash: "hash",
		DisplayName:  "Dave",
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	// Given an account created elsewhere is imported twice
	req.NoError(repository.ImportAccount(remote))
	req.NoError(repository.ImportAccount(remote))

	// Then it keeps its id and can log in by email
	byEmail, err := repository.GetAccountByEmail("dave@example.com")
	req.NoError(err)
	req.Equal("acct-remote", byEmail.ID)
	req.Equal("Dave", byEmail.DisplayName)
	req.Equal(remote.CreatedAt, byEmail.CreatedAt)

	// And an email already owned by another id is refused
	taken := remote
	taken.ID = "acct-other"
	req.ErrorIs(repository.ImportAccount(taken), errors.ErrUserAlreadyExists)

	accounts, err := repository.ListAccounts()
	req.NoError(err)
	req.Len(accounts, 1)
}
