package services

import (
	"context"
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// CartService keeps the cart of authenticated users on the server.
type CartService struct {
	repo     repositories.CartRepository
	validate *validator.Validate
	metrics  *metrics.Metrics
}

// NewCartService creates a new CartService. m may be nil.
func NewCartService(repo repositories.CartRepository, m *metrics.Metrics) *CartService {
	return &CartService{
		repo:     repo,
		validate: models.NewValidator(),
		metrics:  m,
	}
}

// GetCart returns the user's cart lines.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]catalog.CartItem, error) {
	items, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return items, nil
}

// SaveCart replaces the user's cart. Each product may appear on one line only.
// An empty cart removes the stored one.
func (s *CartService) SaveCart(ctx context.Context, userID string, items []catalog.CartItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.Product.ID == "" {
			return apperrors.InvalidInput(fmt.Sprintf("Cart item %d has no product id", i))
		}
		if _, dup := seen[item.Product.ID]; dup {
			return apperrors.InvalidInput(fmt.Sprintf("Product %s appears more than once in the cart", item.Product.ID))
		}
		seen[item.Product.ID] = struct{}{}
		if err := s.validate.Struct(item); err != nil {
			return apperrors.FromValidation(err)
		}
	}

	if len(items) == 0 {
		if err := s.repo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
	} else if err := s.repo.Save(ctx, userID, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	s.metrics.CartSaved()
	log.Debug().Str("user_id", userID).Int("lines", len(items)).Msg("cart saved")
	return nil
}
