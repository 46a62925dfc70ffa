package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is one of the fixed catalog categories.
type Category string

const (
	CategoryElectronics  Category = "Electronics"
	CategoryCameras      Category = "Cameras"
	CategoryLaptops      Category = "Laptops"
	CategoryAccessories  Category = "Accessories"
	CategoryHeadphones   Category = "Headphones"
	CategoryFood         Category = "Food"
	CategoryBooks        Category = "Books"
	CategoryClothesShoes Category = "Clothes/Shoes"
	CategoryBeautyHealth Category = "Beauty/Health"
	CategorySports       Category = "Sports"
	CategoryOutdoor      Category = "Outdoor"
	CategoryHome         Category = "Home"
)

// Categories lists every accepted category, in display order.
var Categories = []Category{
	CategoryElectronics, CategoryCameras, CategoryLaptops, CategoryAccessories,
	CategoryHeadphones, CategoryFood, CategoryBooks, CategoryClothesShoes,
	CategoryBeautyHealth, CategorySports, CategoryOutdoor, CategoryHome,
}

// Image is an inline product image.
type Image struct {
	Data        string `json:"data" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

var dataURLPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// ImageFromDataURL keeps the whole data URL as payload and extracts its
// content type, falling back to image/png.
func ImageFromDataURL(s string) Image {
	if m := dataURLPattern.FindStringSubmatch(s); m != nil {
		return Image{Data: s, ContentType: m[1]}
	}
	return Image{Data: s, ContentType: "image/png"}
}

// Review is one user's rating of a product. It lives inside the product document.
// Rating is expected in 1..5 but any number is stored, zero included.
type Review struct {
	ID      string  `json:"_id" validate:"required"`
	User    string  `json:"user" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment" validate:"required"`
}

// Product represents a product in the store.
type Product struct {
	ID            string         `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name          string         `json:"name" gorm:"type:varchar(100);index" validate:"required,max=100"`
	Price         float64        `json:"price" validate:"gte=0"`
	OriginalPrice float64        `json:"originalPrice" validate:"gte=0"`
	Description   string         `json:"description" gorm:"type:text" validate:"required"`
	Category      Category       `json:"category" gorm:"type:varchar(32);index" validate:"required,category"`
	Seller        string         `json:"seller" validate:"required"`
	Stock         int            `json:"stock" validate:"gte=0,lte=99999"`
	Images        []Image        `json:"images" gorm:"serializer:json;type:text" validate:"dive"`
	Reviews       []Review       `json:"reviews" gorm:"serializer:json;type:text" validate:"dive"`
	Ratings       float64        `json:"ratings"`
	NumOfReviews  int            `json:"numOfReviews"`
	User          string         `json:"user" gorm:"type:varchar(36)"`
	Version       int            `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UpsertReview edits the author's existing review in place (rating and
// comment only) or appends a new one. It reports whether a review was added.
// Derived fields are recomputed either way.
func (p *Product) UpsertReview(userID, userName string, rating float64, comment string) bool {
	inserted := true
	for i := range p.Reviews {
		if p.Reviews[i].User == userID {
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			inserted = false
		}
	}
	if inserted {
		p.Reviews = append(p.Reviews, Review{
			ID:      uuid.New().String(),
			User:    userID,
			Name:    userName,
			Rating:  rating,
			Comment: comment,
		})
	}
	p.RecomputeRatings()
	return inserted
}

// RemoveReview drops the review with the given id, if any, and recomputes
// the derived fields. It returns the removed review.
func (p *Product) RemoveReview(reviewID string) (Review, bool) {
	var (
		removed Review
		found   bool
	)
	kept := make([]Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.ID == reviewID {
			removed, found = r, true
			continue
		}
		kept = append(kept, r)
	}
	p.Reviews = kept
	p.RecomputeRatings()
	return removed, found
}

// FindReview returns the review with the given id.
func (p *Product) FindReview(reviewID string) (Review, bool) {
	for _, r := range p.Reviews {
		if r.ID == reviewID {
			return r, true
		}
	}
	return Review{}, false
}

// RecomputeRatings derives NumOfReviews and Ratings from Reviews.
// An empty collection yields 0, never NaN.
func (p *Product) RecomputeRatings() {
	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}
	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(p.NumOfReviews)
}
