package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// Register creates a new account and opens its first session.
// Returns ErrAlreadyExists if the email is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	account, err := s.CreateAccount(ctx, input)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	result, err := s.openSession(account)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	s.log.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID.String()),
		slog.String("session_id", result.SessionID))

	return result, nil
}

// CreateAccount validates the input and stores a new account without
// opening a session.
func (s *Service) CreateAccount(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}
