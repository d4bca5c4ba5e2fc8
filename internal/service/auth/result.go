package auth

import "github.com/heartmarshall/transcribe-dashboard/internal/domain"

// Result is returned by Register and Login.
type Result struct {
	Token     string
	SessionID string
	Account   *domain.Account
}
