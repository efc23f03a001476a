//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	"social-lab/domain"
	"social-lab/errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IAccountRepository interface {
	CreateAccount(email, hashedPassword, displayName string) (string, error)
	GetAccountByEmail(email string) (domain.Account, error)
	GetAccount(id string) (domain.Account, error)
	UpdateProfile(id string, update domain.ProfileUpdate) (domain.Account, error)
	ImportAccount(account domain.Account) error
	ListAccounts() ([]domain.Account, error)
}

type AccountRepository struct {
	db *badger.DB
}

func NewAccountRepository(db *badger.DB) IAccountRepository {
	return &AccountRepository{db: db}
}

// diskAccount is the persisted shape of an account.
type diskAccount struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password_hash"`
	DisplayName  string   `json:"display_name"`
	AvatarRef    string   `json:"avatar_ref"`
	Bio          string   `json:"bio"`
	Interests    []string `json:"interests"`
	Roles        []string `json:"roles"`
	CreatedAt    int64    `json:"created_at"`
}

// CreateAccount persists a new account and its email index in one transaction.
// It returns the newly generated account ID.
func (a AccountRepository) CreateAccount(email, hashedPassword, displayName string) (string, error) {
	newID := uuid.New().String()
	email = strings.ToLower(email)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	account := diskAccount{
		ID:           newID,
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UnixNano(),
	}

	err := a.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey(email), []byte(newID)); err != nil {
			return err
		}
		return setJSON(txn, accountKey(newID), account)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func (a AccountRepository) GetAccountByEmail(email string) (domain.Account, error) {
	var account diskAccount
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(strings.ToLower(email)))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, accountKey(string(id)), &account)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return toAccount(account), nil
}

func (a AccountRepository) GetAccount(id string) (domain.Account, error) {
	var account diskAccount
	err := a.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, accountKey(id), &account)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return toAccount(account), nil
}

// UpdateProfile replaces the editable fields of an account.
func (a AccountRepository) UpdateProfile(id string, update domain.ProfileUpdate) (domain.Account, error) {
	var account diskAccount
	err := a.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, accountKey(id), &account); err != nil {
			return err
		}
		account.DisplayName = update.DisplayName
		account.Bio = update.Bio
		account.AvatarRef = update.AvatarRef
		account.Interests = update.Interests
		return setJSON(txn, accountKey(id), account)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return toAccount(account), nil
}

// ImportAccount stores an account created on another node with its original id.
// An account already known under that id is left untouched; an email taken by
// another id returns ErrUserAlreadyExists.
func (a AccountRepository) ImportAccount(account domain.Account) error {
	email := strings.ToLower(account.Email)
	return a.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(account.ID)); err == nil {
			return nil
		}
		if item, err := txn.Get(emailKey(email)); err == nil {
			owner, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if string(owner) != account.ID {
				return errors.ErrUserAlreadyExists
			}
		}
		if err := txn.Set(emailKey(email), []byte(account.ID)); err != nil {
			return err
		}
		return setJSON(txn, accountKey(account.ID), fromAccount(account))
	})
}

// ListAccounts returns every account in key order.
func (a AccountRepository) ListAccounts() ([]domain.Account, error) {
	var accounts []domain.Account
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := []byte(accountPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d diskAccount
			err := it.Item().Value(func(val []byte) error {
				return jsonUnmarshal(val, &d)
			})
			if err != nil {
				return err
			}
			accounts = append(accounts, toAccount(d))
		}
		return nil
	})
	return accounts, err
}

func fromAccount(account domain.Account) diskAccount {
	return diskAccount{
		ID:           account.ID,
		Email:        strings.ToLower(account.Email),
		PasswordHash: account.PasswordHash,
		DisplayName:  account.DisplayName,
		AvatarRef:    account.AvatarRef,
		Bio:          account.Bio,
		Interests:    account.Interests,
		Roles:        account.Roles,
		CreatedAt:    account.CreatedAt.UnixNano(),
	}
}

func toAccount(d diskAccount) domain.Account {
	return domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		AvatarRef:    d.AvatarRef,
		Bio:          d.Bio,
		Interests:    d.Interests,
		Roles:        d.Roles,
		CreatedAt:    time.Unix(0, d.CreatedAt).UTC(),
	}
}
