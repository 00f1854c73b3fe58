package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const usersTable = "users"

// ErrUserExists is returned when registering an email twice.
var ErrUserExists = errors.New("user already exists")

type userRepo struct {
	drv dialect.Driver
}

func (r *userRepo) Create(ctx context.Context, u User) error {
	existing, err := r.ByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	q := entsql.Dialect(dialect.SQLite).
		Insert(usersTable).
		Columns("id", "email", "password_hash", "name", "created_at").
		Values(u.ID, normalizeEmail(u.Email), u.PasswordHash, u.Name, u.CreatedAt.UnixMilli())
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.find(ctx, entsql.EQ("email", normalizeEmail(email)))
}

func (r *userRepo) ByID(ctx context.Context, id string) (*User, error) {
	return r.find(ctx, entsql.EQ("id", id))
}

func (r *userRepo) find(ctx context.Context, p *entsql.Predicate) (*User, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("id", "email", "password_hash", "name", "created_at").
		From(entsql.Table(usersTable)).
		Where(p)

	var (
		u       User
		created int64
	)
	found, err := selectOne(ctx, r.drv, q, &u.ID, &u.Email, &u.PasswordHash, &u.Name, &created)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return nil, nil
	}
	u.CreatedAt = time.UnixMilli(created)
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
