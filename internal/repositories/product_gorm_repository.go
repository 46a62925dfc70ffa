package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// catalogColumns are the columns an admin product update may change.
var catalogColumns = []string{
	"name", "price", "original_price", "description", "category", "seller", "stock", "images", "updated_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) filtered(ctx context.Context, f ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.MinRating > 0 {
		q = q.Where("ratings >= ?", f.MinRating)
	}
	return q
}

// GetAll retrieves the products matching filter and the total number of matches.
func (r *GORMProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	q := r.filtered(ctx, filter).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset())
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Reviews == nil {
		product.Reviews = []models.Review{}
	}
	if product.Images == nil {
		product.Images = []models.Image{}
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates the catalog fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	if product.Images == nil {
		product.Images = []models.Image{}
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select(catalogColumns).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Product", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Product", id)
	}
	return nil
}

// SaveReviews writes the review document and its derived fields only if
// nobody else has written them since expectedVersion was read.
func (r *GORMProductRepository) SaveReviews(ctx context.Context, product *models.Product, expectedVersion int) error {
	next := expectedVersion + 1
	reviews := product.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}

	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Where("version = ?", expectedVersion).
		Select("reviews", "ratings", "num_of_reviews", "version", "updated_at").
		Updates(&models.Product{
			Reviews:      reviews,
			Ratings:      product.Ratings,
			NumOfReviews: product.NumOfReviews,
			Version:      next,
			UpdatedAt:    time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to save reviews for product %s: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	product.Version = next
	return nil
}
