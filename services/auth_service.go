package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/auth"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/repositories"
	"strings"
)

type IAuthService interface {
	Login(email, password string) (Session, error)
	Register(email, password, displayName string) (Session, error)
}

type AuthService struct {
	accountRepository repositories.IAccountRepository
	issuer            *auth.Issuer
	changes           contract.IChangeSink
	log               *slog.Logger
}

type Token string

func (t Token) String() string {
	return string(t)
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token     Token  `json:"token"`
	AccountID string `json:"account_id"`
}

// NewAuthService builds the identity service. changes may be nil when no
// component follows account creation.
func NewAuthService(repo repositories.IAccountRepository, issuer *auth.Issuer, changes contract.IChangeSink, log *slog.Logger) IAuthService {
	return &AuthService{accountRepository: repo, issuer: issuer, changes: changes, log: log}
}

func (s *AuthService) Register(email, password, displayName string) (Session, error) {
	valReq := auth.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}

	// Business rules are checked before any expensive cryptographic operation
	if err := auth.ValidateRegister(valReq); err != nil {
		return Session{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// The repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	accountID, err := s.accountRepository.CreateAccount(email, hashedPassword, valReq.DisplayName)
	if err != nil {
		return Session{}, err // ErrUserAlreadyExists when the email is taken
	}

	s.recordAccount(accountID)

	token, err := s.issuer.GenerateToken(accountID, []string{"user"})
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}

	s.log.Info("Account registered", "account_id", accountID)
	return Session{Token: Token(token), AccountID: accountID}, nil
}

func (s *AuthService) Login(email, password string) (Session, error) {
	account, err := s.accountRepository.GetAccountByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(account.ID, account.Roles)
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}

	return Session{Token: Token(token), AccountID: account.ID}, nil
}

func (s *AuthService) recordAccount(accountID string) {
	if s.changes == nil {
		return
	}
	account, err := s.accountRepository.GetAccount(accountID)
	if err != nil {
		s.log.Warn("Registered account not readable", "account_id", accountID, "error", err)
		return
	}
	s.changes.Record(context.Background(), domain.Change{
		Kind:      domain.ChangeAccount,
		ActorID:   accountID,
		SubjectID: accountID,
		Account:   &account,
		At:        account.CreatedAt,
	})
}
