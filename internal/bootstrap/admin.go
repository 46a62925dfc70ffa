// Package bootstrap prepares the data a fresh deployment needs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/rs/zerolog/log"
)

// AdminAccount is the admin user created on startup.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the admin account unless a user with its email already
// exists. An account without email or password is skipped. It reports
// whether a user was created.
func EnsureAdmin(ctx context.Context, users repositories.UserRepository, auth *services.AuthService, account AdminAccount) (bool, error) {
	if account.Email == "" || account.Password == "" {
		log.Debug().Msg("no admin account configured, skipping bootstrap")
		return false, nil
	}

	existing, err := users.GetByEmail(ctx, account.Email)
	if err == nil && existing != nil {
		log.Info().Str("email", account.Email).Msg("admin user already exists")
		return false, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin user: %w", err)
	}

	admin := &models.User{Name: account.Name, Email: account.Email, Password: account.Password}
	if err := auth.CreateAdmin(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Info().Str("email", account.Email).Str("user_id", admin.ID).Msg("admin user created")
	return true, nil
}
