// Package repository persists user accounts for authentication.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/platform/apperr"
)

// User is an operator account. Quotes and sales carry the id of the user who
// acted on them.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ErrUserNotFound is returned when an email or id resolves to no account.
var ErrUserNotFound = apperr.NotFound("user not found")

// Repository is the persistence port for users.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

// Repo implements the users repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new users repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, "persistence failure", fmt.Errorf("%s: %w", op, err))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *Repo) get(ctx context.Context, query string, arg interface{}) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, persistence("get user", err)
	}
	return user, nil
}
