package bootstrap

import (
	"context"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	auth := services.NewAuthService(users, "secret", time.Hour)
	ctx := context.Background()
	account := AdminAccount{Name: "Admin", Email: "admin@example.com", Password: "Admin@123"}

	created, err := EnsureAdmin(ctx, users, auth, account)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, users, auth, account)
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	token, user, err := auth.LoginUser(ctx, "admin@example.com", "Admin@123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsAdmin())
}

func TestEnsureAdmin_SkipsWithoutCredentials(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	auth := services.NewAuthService(users, "secret", time.Hour)

	created, err := EnsureAdmin(context.Background(), users, auth, AdminAccount{Name: "Admin"})

	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureAdmin_InvalidAccount(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	auth := services.NewAuthService(users, "secret", time.Hour)

	_, err := EnsureAdmin(context.Background(), users, auth, AdminAccount{Name: "Admin", Email: "not-an-email", Password: "Admin@123"})

	assert.Error(t, err)
}
