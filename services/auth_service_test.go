package services

import (
	"log/slog"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	issuer := auth.NewIssuer("register-secret", 24*time.Hour)
	mockRepo := mocks.NewMockIAccountRepository(ctrl)
	svc := NewAuthService(mockRepo, issuer, nil, log)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "test@example.com"
		password := "ComplexPass123!"
		expectedAccountID := "account-uuid"

		// Expect CreateAccount to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateAccount(email, gomock.Not(password), "Test").
			Return(expectedAccountID, nil).
			Times(1)

		session, err := svc.Register(email, password, " Test ")

		req.NoError(err)
		req.NotEmpty(session.Token)
		req.Equal(expectedAccountID, session.AccountID)

		claims, err := issuer.ValidateToken(session.Token.String())
		req.NoError(err)
		req.Equal(expectedAccountID, claims.UserID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateAccount(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		session, err := svc.Register("test@example.com", "simple", "")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(session.Token)
	})

	t.Run("should fail when account already exists in repository", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"

		mockRepo.EXPECT().
			CreateAccount(email, gomock.Any(), "").
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(email, "ComplexPass123!", "")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Register_Records_The_New_Account(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	mockRepo := mocks.NewMockIAccountRepository(ctrl)
	changes := mocks.NewMockIChangeSink(ctrl)
	svc := NewAuthService(mockRepo, auth.NewIssuer("register-secret", time.Hour), changes, logs.GetLoggerFromLevel(slog.LevelDebug))
	account := domain.Account{ID: "account-uuid", Email: "test@example.com", DisplayName: "Test", CreatedAt: time.Now().UTC()}

	// Given a repository accepting the account
	mockRepo.EXPECT().CreateAccount("test@example.com", gomock.Any(), "Test").Return(account.ID, nil)
	mockRepo.EXPECT().GetAccount(account.ID).Return(account, nil)

	// Then the committed account is recorded once
	changes.EXPECT().Record(gomock.Any(), domain.Change{
		Kind:      domain.ChangeAccount,
		ActorID:   account.ID,
		SubjectID: account.ID,
		Account:   &account,
		At:        account.CreatedAt,
	}).Times(1)

	_, err := svc.Register("test@example.com", "ComplexPass123!", "Test")
	req.NoError(err)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	issuer := auth.NewIssuer("login-secret", 24*time.Hour)
	mockRepo := mocks.NewMockIAccountRepository(ctrl)
	svc := NewAuthService(mockRepo, issuer, nil, log)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, err := auth.HashPassword(password)
		req.NoError(err)
		stored := domain.Account{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Roles:        []string{"user"},
		}

		mockRepo.EXPECT().
			GetAccountByEmail(email).
			Return(stored, nil).
			Times(1)

		session, err := svc.Login(email, password)

		req.NoError(err)
		req.Equal(stored.ID, session.AccountID)
		claims, err := issuer.ValidateToken(session.Token.String())
		req.NoError(err)
		req.Equal(stored.ID, claims.UserID)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, err := auth.HashPassword("CorrectPassword123!")
		req.NoError(err)

		mockRepo.EXPECT().
			GetAccountByEmail(email).
			Return(domain.Account{Email: email, PasswordHash: hashedPassword}, nil).
			Times(1)

		_, err = svc.Login(email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when account is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetAccountByEmail("unknown@example.com").
			Return(domain.Account{}, errors.ErrAccountNotFound).
			Times(1)

		_, err := svc.Login("unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
