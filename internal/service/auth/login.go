package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// Login authenticates with email + password and opens a new session.
// Returns ErrUnauthorized if the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	result, err := s.openSession(account)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	s.log.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID.String()),
		slog.String("session_id", result.SessionID))

	return result, nil
}
