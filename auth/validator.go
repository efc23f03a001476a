package auth

import (
	"fmt"
	"social-lab/domain"
	"social-lab/errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=12,max=72"`
	DisplayName string `validate:"omitempty,max=64"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

// ValidateNewPost checks a post before moderation and persistence.
func ValidateNewPost(post domain.NewPost) error {
	if strings.TrimSpace(post.Text) == "" && len(post.ImageRefs) == 0 {
		return fmt.Errorf("%w: empty post", errors.ErrInvalidInput)
	}
	if err := validate.Struct(post); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

func ValidateNewComment(comment domain.NewComment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return fmt.Errorf("%w: empty comment", errors.ErrInvalidInput)
	}
	if err := validate.Struct(comment); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

func ValidateProfileUpdate(update domain.ProfileUpdate) error {
	if err := validate.Struct(update); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}

func ValidateSearch(query domain.SearchQuery) error {
	if err := validate.Struct(query); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}
