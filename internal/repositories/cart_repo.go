package repositories

import (
	"context"

	"storefront/pkg/catalog"
)

// CartRepository stores one cart per authenticated user.
type CartRepository interface {
	// Get returns the user's cart lines; a user without a stored cart has none.
	Get(ctx context.Context, userID string) ([]catalog.CartItem, error)
	Save(ctx context.Context, userID string, items []catalog.CartItem) error
	Delete(ctx context.Context, userID string) error
}
