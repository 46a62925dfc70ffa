package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrVersionConflict is returned by SaveReviews when the product changed
// since it was read.
var ErrVersionConflict = errors.New("product was modified concurrently")

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Keyword   string
	Category  models.Category
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	Page      int
	Limit     int
}

// Offset returns the number of rows to skip for the filter's page.
func (f ProductFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update writes the catalog fields only; review data is left untouched.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// SaveReviews writes reviews, ratings and numOfReviews in one conditional
	// update keyed on expectedVersion. On success product.Version is bumped.
	SaveReviews(ctx context.Context, product *models.Product, expectedVersion int) error
}
