// Package auth implements account registration and session login/logout.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/config"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
)

// accountRepo defines the account repository interface needed by auth service.
type accountRepo interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// sessionRegistry defines the live-session operations needed by auth service.
type sessionRegistry interface {
	Open(accountID uuid.UUID) *session.State
	Get(id string) (*session.State, bool)
	Close(id string) bool
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateSessionToken(accountID uuid.UUID, sessionID string) (string, error)
	ValidateSessionToken(token string) (auth.Claims, error)
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	sessions sessionRegistry
	jwt      jwtManager
	cfg      config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	sessions sessionRegistry,
	jwt jwtManager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		accounts: accounts,
		sessions: sessions,
		jwt:      jwt,
		cfg:      cfg,
	}
}

// openSession starts a session for the account and signs its token.
func (s *Service) openSession(account *domain.Account) (*Result, error) {
	st := s.sessions.Open(account.ID)

	token, err := s.jwt.GenerateSessionToken(account.ID, st.ID)
	if err != nil {
		s.sessions.Close(st.ID)
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	return &Result{
		Token:     token,
		SessionID: st.ID,
		Account:   account,
	}, nil
}
