package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores bytes past 72
	maxNameLen     = 100
	maxEmailLen    = 254
)

// RegisterInput holds parameters for account registration.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateEmail(i.Email)...)

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if utf8.RuneCountInString(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	switch {
	case i.Password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case len(i.Password) < minPasswordLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	case len(i.Password) > maxPasswordLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for password login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) > maxPasswordLen {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) []domain.FieldError {
	if email == "" {
		return []domain.FieldError{{Field: "email", Message: "required"}}
	}
	if len(email) > maxEmailLen {
		return []domain.FieldError{{Field: "email", Message: "too long"}}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []domain.FieldError{{Field: "email", Message: "invalid format"}}
	}
	return nil
}
