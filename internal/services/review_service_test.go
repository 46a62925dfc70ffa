package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = &models.User{ID: "A", Name: "Alice", Role: models.RoleUser}
	bob   = &models.User{ID: "B", Name: "Bob", Role: models.RoleUser}
	admin = &models.User{ID: "root", Name: "Admin", Role: models.RoleAdmin}
)

func productWithReviews(version int, reviews ...models.Review) *models.Product {
	p := &models.Product{ID: "p1", Name: "Lamp", Version: version, Reviews: reviews}
	p.RecomputeRatings()
	return p
}

func TestReviewService_SubmitNewReview(t *testing.T) {
	mockRepo := new(MockProductRepository)
	m := metrics.New(prometheus.NewRegistry())
	service := services.NewReviewService(mockRepo, m)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(productWithReviews(0), nil).Once()
	mockRepo.On("SaveReviews", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return len(p.Reviews) == 1 && p.NumOfReviews == 1 && p.Ratings == 4
	}), 0).Return(nil).Once()

	inserted, err := service.SubmitOrUpdateReview(ctx, "p1", alice, 4, "good")

	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsWritten.WithLabelValues("created")))
	mockRepo.AssertExpectations(t)
}

func TestReviewService_ResubmitEditsInPlace(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	existing := productWithReviews(3, models.Review{ID: "r1", User: "A", Name: "Alice", Rating: 2, Comment: "meh"})
	mockRepo.On("GetByID", ctx, "p1").Return(existing, nil).Once()
	mockRepo.On("SaveReviews", ctx, existing, 3).Return(nil).Once()

	inserted, err := service.SubmitOrUpdateReview(ctx, "p1", alice, 5, "changed my mind")

	assert.NoError(t, err)
	assert.False(t, inserted)
	require.Len(t, existing.Reviews, 1)
	assert.Equal(t, "r1", existing.Reviews[0].ID)
	assert.Equal(t, 5.0, existing.Ratings)
	assert.Equal(t, 1, existing.NumOfReviews)
	mockRepo.AssertExpectations(t)
}

func TestReviewService_RetriesOnVersionConflict(t *testing.T) {
	mockRepo := new(MockProductRepository)
	m := metrics.New(prometheus.NewRegistry())
	service := services.NewReviewService(mockRepo, m)
	ctx := context.Background()

	stale := productWithReviews(0)
	fresh := productWithReviews(1, models.Review{ID: "r1", User: "B", Name: "Bob", Rating: 5, Comment: "love it"})

	mockRepo.On("GetByID", ctx, "p1").Return(stale, nil).Once()
	mockRepo.On("SaveReviews", ctx, stale, 0).Return(repositories.ErrVersionConflict).Once()
	mockRepo.On("GetByID", ctx, "p1").Return(fresh, nil).Once()
	mockRepo.On("SaveReviews", ctx, fresh, 1).Return(nil).Once()

	inserted, err := service.SubmitOrUpdateReview(ctx, "p1", alice, 3, "fine")

	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.Len(t, fresh.Reviews, 2, "the concurrent review survives the retry")
	assert.Equal(t, 4.0, fresh.Ratings)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewWriteConflicts))
	mockRepo.AssertExpectations(t)
}

func TestReviewService_GivesUpAfterMaxAttempts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(productWithReviews(0), nil)
	mockRepo.On("SaveReviews", ctx, mock.Anything, 0).Return(repositories.ErrVersionConflict)

	_, err := service.SubmitOrUpdateReview(ctx, "p1", alice, 3, "fine")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockRepo.AssertNumberOfCalls(t, "SaveReviews", 5)
}

func TestReviewService_SubmitProductNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("Product", "missing")).Once()

	_, err := service.SubmitOrUpdateReview(ctx, "missing", alice, 3, "x")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertNotCalled(t, "SaveReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_SaveErrorIsWrapped(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(productWithReviews(0), nil).Once()
	mockRepo.On("SaveReviews", ctx, mock.Anything, 0).Return(fmt.Errorf("disk full")).Once()

	_, err := service.SubmitOrUpdateReview(ctx, "p1", alice, 3, "x")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestReviewService_DeleteOnlyReviewResetsAggregate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	p := productWithReviews(2, models.Review{ID: "r1", User: "A", Name: "Alice", Rating: 3, Comment: "ok"})
	mockRepo.On("GetByID", ctx, "p1").Return(p, nil).Once()
	mockRepo.On("SaveReviews", ctx, p, 2).Return(nil).Once()

	err := service.DeleteReview(ctx, "p1", "r1", alice)

	assert.NoError(t, err)
	assert.Empty(t, p.Reviews)
	assert.Equal(t, 0, p.NumOfReviews)
	assert.Equal(t, 0.0, p.Ratings)
	mockRepo.AssertExpectations(t)
}

func TestReviewService_DeleteByOtherUserIsForbidden(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	p := productWithReviews(0, models.Review{ID: "r1", User: "A", Name: "Alice", Rating: 3, Comment: "ok"})
	mockRepo.On("GetByID", ctx, "p1").Return(p, nil).Once()

	err := service.DeleteReview(ctx, "p1", "r1", bob)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Len(t, p.Reviews, 1)
	mockRepo.AssertNotCalled(t, "SaveReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_AdminMayDeleteAnyReview(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	p := productWithReviews(0,
		models.Review{ID: "r1", User: "A", Name: "Alice", Rating: 4, Comment: "good"},
		models.Review{ID: "r2", User: "B", Name: "Bob", Rating: 5, Comment: "great"},
	)
	mockRepo.On("GetByID", ctx, "p1").Return(p, nil).Once()
	mockRepo.On("SaveReviews", ctx, p, 0).Return(nil).Once()

	err := service.DeleteReview(ctx, "p1", "r2", admin)

	assert.NoError(t, err)
	assert.Equal(t, 1, p.NumOfReviews)
	assert.Equal(t, 4.0, p.Ratings)
}

func TestReviewService_DeleteUnknownReviewIsNoop(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(productWithReviews(0), nil).Once()

	err := service.DeleteReview(ctx, "p1", "nope", alice)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "SaveReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_DeleteRejectsInvalidRemainingReviews(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	p := productWithReviews(0,
		models.Review{ID: "r1", User: "A", Name: "Alice", Rating: 4, Comment: "good"},
		models.Review{ID: "r2", User: "B", Name: "Bob", Rating: 5},
	)
	mockRepo.On("GetByID", ctx, "p1").Return(p, nil).Once()

	err := service.DeleteReview(ctx, "p1", "r1", alice)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "Comment")
	mockRepo.AssertNotCalled(t, "SaveReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_ListReviews(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewReviewService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1"}, nil).Once()

	reviews, err := service.ListReviews(ctx, "p1")

	assert.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestReviewService_ConcurrentSubmissionsLoseNothing(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	service := services.NewReviewService(repo, nil)
	ctx := context.Background()

	p := &models.Product{Name: "Kettle", Description: "d", Category: models.CategoryHome, Seller: "s"}
	require.NoError(t, repo.Create(ctx, p))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			author := &models.User{ID: fmt.Sprintf("u%d", i), Name: "user"}
			if _, err := service.SubmitOrUpdateReview(ctx, p.ID, author, 4, "nice"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, successes, got.NumOfReviews)
	assert.Len(t, got.Reviews, got.NumOfReviews)
	assert.Equal(t, 4.0, got.Ratings)
}

func TestReviewService_EndToEndScenario(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	service := services.NewReviewService(repo, nil)
	ctx := context.Background()

	p := &models.Product{Name: "Chair", Description: "d", Category: models.CategoryHome, Seller: "s"}
	require.NoError(t, repo.Create(ctx, p))

	_, err := service.SubmitOrUpdateReview(ctx, p.ID, alice, 3, "fine")
	require.NoError(t, err)
	_, err = service.SubmitOrUpdateReview(ctx, p.ID, bob, 5, "love it")
	require.NoError(t, err)
	_, err = service.SubmitOrUpdateReview(ctx, p.ID, alice, 1, "broke")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumOfReviews)
	assert.Equal(t, 3.0, got.Ratings)

	var bobReview string
	for _, r := range got.Reviews {
		if r.User == bob.ID {
			bobReview = r.ID
		}
	}
	require.NoError(t, service.DeleteReview(ctx, p.ID, bobReview, bob))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumOfReviews)
	assert.Equal(t, 1.0, got.Ratings)
}

func TestReviewService_DeleteWithZeroRatedReviewRemaining(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	service := services.NewReviewService(repo, nil)
	ctx := context.Background()

	p := &models.Product{Name: "Desk", Description: "d", Category: models.CategoryHome, Seller: "s"}
	require.NoError(t, repo.Create(ctx, p))

	_, err := service.SubmitOrUpdateReview(ctx, p.ID, alice, 0, "never arrived")
	require.NoError(t, err)
	_, err = service.SubmitOrUpdateReview(ctx, p.ID, bob, 5, "sturdy")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	var bobReview string
	for _, r := range got.Reviews {
		if r.User == bob.ID {
			bobReview = r.ID
		}
	}

	require.NoError(t, service.DeleteReview(ctx, p.ID, bobReview, bob))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, alice.ID, got.Reviews[0].User)
	assert.Equal(t, 0.0, got.Ratings)
	assert.Equal(t, 1, got.NumOfReviews)
}
