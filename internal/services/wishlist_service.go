package services

import (
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
)

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Prods *repos.ProductRepo
}

func NewWishlistService(r *repos.WishlistRepo, prods *repos.ProductRepo) *WishlistService {
	return &WishlistService{Repo: r, Prods: prods}
}

// WishlistItem is a saved product plus whether it can still be bought.
// Items saved while live stay on the list after the merchant pulls them,
// flagged unavailable instead of silently vanishing.
type WishlistItem struct {
	repos.WishlistRow
	Available bool
}

// Save only accepts publicly visible products; anything else reads as
// not found, same as the catalog pages.
func (s *WishlistService) Save(sessionID, productID string) error {
	p, err := s.Prods.Get(productID, time.Now())
	if err != nil || p.Status != domain.ProductActive {
		return domain.ErrNotFound
	}
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Add(id, productID)
}

func (s *WishlistService) Unsave(sessionID, productID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Remove(id, productID)
}

func (s *WishlistService) List(sessionID string) ([]WishlistItem, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.List(id)
	if err != nil {
		return nil, err
	}
	out := make([]WishlistItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, WishlistItem{WishlistRow: row, Available: row.Status == domain.ProductActive})
	}
	return out, nil
}
