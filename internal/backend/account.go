package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/auth"
	"github.com/abhisek/studybuddy/internal/store"
)

var (
	// ErrUserExists is returned when registering an email twice.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Register creates an account with a bcrypt password hash.
func (b *Backend) Register(ctx context.Context, req api.RegisterRequest) (*api.Account, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := store.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    b.now(),
	}
	if err := b.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	b.log.WithFields(logrus.Fields{"user": u.ID}).Info("account registered")
	return &api.Account{ID: u.ID, Email: req.Email, Name: u.Name}, nil
}

// Authenticate checks an email and password pair.
func (b *Backend) Authenticate(ctx context.Context, req api.LoginRequest) (*api.Account, error) {
	u, err := b.users.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return toAccount(u), nil
}

// Account returns the account with id, or ErrNotFound.
func (b *Backend) Account(ctx context.Context, id string) (*api.Account, error) {
	u, err := b.users.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return toAccount(u), nil
}

func toAccount(u *store.User) *api.Account {
	return &api.Account{ID: u.ID, Email: u.Email, Name: u.Name}
}
