package services

import (
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"

	"github.com/google/uuid"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// Create adds one review per user per product; a second attempt surfaces
// ErrDuplicate so the form can suggest editing instead.
func (s *ReviewService) Create(userID, productID string, rating int, title, body string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", domain.ErrValidation
	}
	p, err := s.Prods.Get(productID, time.Now())
	if err != nil || p.Status != domain.ProductActive {
		return "", domain.ErrNotFound
	}
	id := uuid.NewString()
	err = s.Reviews.Create(domain.Review{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Title:     title,
		Body:      body,
	})
	return id, err
}

func (s *ReviewService) Update(id, userID string, rating int, title, body string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrValidation
	}
	return s.Reviews.Update(domain.Review{ID: id, UserID: userID, Rating: rating, Title: title, Body: body})
}

func (s *ReviewService) Delete(id, userID string) error {
	return s.Reviews.Delete(id, userID)
}

func (s *ReviewService) ForProduct(productID string) ([]repos.ReviewRow, float64, int, error) {
	rows, err := s.Reviews.ListByProduct(productID)
	if err != nil {
		return nil, 0, 0, err
	}
	avg, count, err := s.Reviews.Summary(productID)
	return rows, avg, count, err
}
