// Package account implements account persistence on top of sqlstore.
package account

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

const table = "accounts"

var columns = []string{"id", "email", "name", "password_hash", "created_at"}

// Repo provides account persistence.
type Repo struct {
	db *sqlstore.DB
}

// New creates a new account repository.
func New(db *sqlstore.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new account.
func (r *Repo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	query, args, err := r.db.Builder().
		Insert(table).
		Columns(columns...).
		Values(a.ID.String(), a.Email, a.Name, a.PasswordHash, a.CreatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, sqlstore.MapError(err, "account", a.Email)
	}

	created := *a
	created.CreatedAt = time.UnixMilli(a.CreatedAt.UnixMilli()).UTC()
	return &created, nil
}

// GetByEmail returns an account by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"email": email}, email)
}

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"id": id.String()}, id.String())
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, key string) (*domain.Account, error) {
	query, args, err := r.db.Builder().
		Select(columns...).
		From(table).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		a         domain.Account
		id        string
		createdAt int64
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&id, &a.Email, &a.Name, &a.PasswordHash, &createdAt); err != nil {
		return nil, sqlstore.MapError(err, "account", key)
	}

	a.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("account %s: parse id: %w", key, err)
	}
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &a, nil
}
