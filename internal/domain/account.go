package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a dashboard user able to open sessions.
type Account struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
