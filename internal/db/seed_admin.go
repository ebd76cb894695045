package db

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/config"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/security"
)

// AdminStore is the slice of the user repository seeding needs.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// EnsureAdminUser creates the configured ADMIN account once; an existing email is left untouched.
func EnsureAdminUser(ctx context.Context, users AdminStore, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists
	_, err := users.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := user.NewFromRegister(user.RegisterRequest{
		Email: cfg.AdminEmail,
		Name:  cfg.AdminName,
	}, hash)
	u.Role = user.RoleAdmin

	_, err = users.Create(ctx, u)

	return err
}
