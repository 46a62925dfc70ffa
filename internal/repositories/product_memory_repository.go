package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"github.com/google/uuid"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// cloneProduct copies the slices so callers never share backing arrays with the store.
func cloneProduct(p models.Product) models.Product {
	p.Reviews = append([]models.Review{}, p.Reviews...)
	p.Images = append([]models.Image{}, p.Images...)
	return p
}

func matches(p models.Product, f ProductFilter) bool {
	if f.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinRating > 0 && p.Ratings < f.MinRating {
		return false
	}
	return true
}

// GetAll returns the matching products, newest first.
func (r *InMemoryProductRepository) GetAll(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, filter) {
			productList = append(productList, cloneProduct(p))
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})

	total := int64(len(productList))
	if filter.Limit > 0 {
		start := filter.Offset()
		if start > len(productList) {
			start = len(productList)
		}
		end := start + filter.Limit
		if end > len(productList) {
			end = len(productList)
		}
		productList = productList[start:end]
	}
	return productList, total, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product", id)
	}
	product = cloneProduct(product)
	return &product, nil
}

// Create adds a new product.
func (r *InMemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.Reviews == nil {
		product.Reviews = []models.Review{}
	}
	if product.Images == nil {
		product.Images = []models.Image{}
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// Update modifies the catalog fields of an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return apperrors.NotFound("Product", product.ID)
	}
	stored.Name = product.Name
	stored.Price = product.Price
	stored.OriginalPrice = product.OriginalPrice
	stored.Description = product.Description
	stored.Category = product.Category
	stored.Seller = product.Seller
	stored.Stock = product.Stock
	stored.Images = append([]models.Image{}, product.Images...)
	stored.UpdatedAt = time.Now()
	r.products[product.ID] = stored
	return nil
}

// Delete removes a product by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("Product", id)
	}
	delete(r.products, id)
	return nil
}

// SaveReviews stores the review document if the stored version still equals expectedVersion.
func (r *InMemoryProductRepository) SaveReviews(_ context.Context, product *models.Product, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok || stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	stored.Reviews = append([]models.Review{}, product.Reviews...)
	stored.Ratings = product.Ratings
	stored.NumOfReviews = product.NumOfReviews
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = time.Now()
	r.products[product.ID] = stored

	product.Version = stored.Version
	return nil
}
