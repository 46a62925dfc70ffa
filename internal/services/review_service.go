package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// maxReviewWriteAttempts bounds the re-read and re-apply loop when a review
// write loses the race against another writer of the same product.
const maxReviewWriteAttempts = 5

// ReviewService maintains the reviews embedded in a product together with
// the derived ratings and numOfReviews.
type ReviewService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	metrics  *metrics.Metrics
}

// NewReviewService creates a new ReviewService. m may be nil.
func NewReviewService(repo repositories.ProductRepository, m *metrics.Metrics) *ReviewService {
	return &ReviewService{
		repo:     repo,
		validate: models.NewValidator(),
		metrics:  m,
	}
}

// SubmitOrUpdateReview adds the author's review or edits it in place when
// the author already reviewed the product. It reports whether a new review
// was appended.
func (s *ReviewService) SubmitOrUpdateReview(ctx context.Context, productID string, author *models.User, rating float64, comment string) (bool, error) {
	var inserted bool
	_, err := s.mutate(ctx, productID, func(p *models.Product) (bool, error) {
		inserted = p.UpsertReview(author.ID, author.Name, rating, comment)
		return true, nil
	})
	if err != nil {
		return false, err
	}

	action := "updated"
	if inserted {
		action = "created"
	}
	s.metrics.ReviewWritten(action)
	log.Info().
		Str("product_id", productID).
		Str("user_id", author.ID).
		Str("action", action).
		Msg("review saved")
	return inserted, nil
}

// DeleteReview removes a review from a product. Only the review's author or
// an admin may delete it. An unknown review id is a no-op.
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID string, actor *models.User) error {
	removed := false
	_, err := s.mutate(ctx, productID, func(p *models.Product) (bool, error) {
		review, ok := p.FindReview(reviewID)
		if !ok {
			return false, nil
		}
		if review.User != actor.ID && !actor.IsAdmin() {
			return false, apperrors.Forbidden("You can only delete your own reviews")
		}
		p.RemoveReview(reviewID)
		for _, r := range p.Reviews {
			if err := s.validate.Struct(r); err != nil {
				return false, apperrors.FromValidation(err)
			}
		}
		removed = true
		return true, nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.metrics.ReviewWritten("deleted")
		log.Info().
			Str("product_id", productID).
			Str("review_id", reviewID).
			Str("user_id", actor.ID).
			Msg("review deleted")
	}
	return nil
}

// ListReviews returns the reviews of a product.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Reviews == nil {
		return []models.Review{}, nil
	}
	return product.Reviews, nil
}

// mutate reads the product, applies fn and writes the review fields back
// with a conditional update. A lost race re-reads and re-applies fn.
func (s *ReviewService) mutate(ctx context.Context, productID string, fn func(*models.Product) (bool, error)) (*models.Product, error) {
	for attempt := 1; attempt <= maxReviewWriteAttempts; attempt++ {
		product, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		expectedVersion := product.Version

		changed, err := fn(product)
		if err != nil {
			return nil, err
		}
		if !changed {
			return product, nil
		}

		err = s.repo.SaveReviews(ctx, product, expectedVersion)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to save reviews: %w", err)
		}
		s.metrics.ReviewConflict()
		log.Debug().
			Str("product_id", productID).
			Int("attempt", attempt).
			Msg("review write conflict, retrying")
	}
	return nil, apperrors.Conflict("Product reviews were modified concurrently, please retry")
}
