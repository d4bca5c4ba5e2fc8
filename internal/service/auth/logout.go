package auth

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

// Logout closes the session carried by the context.
// Returns ErrUnauthorized if no session is found in context.
func (s *Service) Logout(ctx context.Context) error {
	sessionID, ok := ctxutil.SessionIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	s.sessions.Close(sessionID)

	s.log.InfoContext(ctx, "session logged out", slog.String("session_id", sessionID))
	return nil
}

// ValidateToken checks the token signature and expiry and that its session
// is still open. Returns ErrUnauthorized otherwise.
func (s *Service) ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error) {
	claims, err := s.jwt.ValidateSessionToken(token)
	if err != nil {
		return ctxutil.Identity{}, domain.ErrUnauthorized
	}

	st, ok := s.sessions.Get(claims.SessionID)
	if !ok || st.AccountID != claims.AccountID {
		return ctxutil.Identity{}, domain.ErrUnauthorized
	}

	return ctxutil.Identity{AccountID: claims.AccountID, SessionID: claims.SessionID}, nil
}
