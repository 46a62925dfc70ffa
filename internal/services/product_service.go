package services

import (
	"context"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// ResPerPage is the catalog page size.
const ResPerPage = 8

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products      []models.Product
	ProductsCount int64
	ResPerPage    int
}

// ProductInput is the admin payload for creating or editing a product.
// Images are data URLs.
type ProductInput struct {
	Name          string          `json:"name"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"originalPrice"`
	Description   string          `json:"description"`
	Category      models.Category `json:"category"`
	Seller        string          `json:"seller"`
	Stock         int             `json:"stock"`
	Images        []string        `json:"images"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Description = in.Description
	p.Category = in.Category
	p.Seller = in.Seller
	p.Stock = in.Stock
	if len(in.Images) > 0 {
		p.Images = make([]models.Image, 0, len(in.Images))
		for _, img := range in.Images {
			p.Images = append(p.Images, models.ImageFromDataURL(img))
		}
	}
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: models.NewValidator(),
	}
}

// ListProducts retrieves one page of the products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) (*ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Limit = ResPerPage

	products, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:      products,
		ProductsCount: total,
		ResPerPage:    ResPerPage,
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product owned by userID.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput, userID string) (*models.Product, error) {
	product := &models.Product{User: userID}
	input.apply(product)
	if err := s.validate.Struct(product); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", product.ID).Str("user_id", userID).Msg("product created")
	return product, nil
}

// UpdateProduct replaces the catalog fields of a product. Images are kept
// when the input carries none.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(product)
	if err := s.validate.Struct(product); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
