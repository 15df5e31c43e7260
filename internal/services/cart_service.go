package services

import (
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts a product variant into the session cart at today's price. Only
// publicly visible products can be added.
func (s *CartService) Add(sessionID, productID, color, size string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID, time.Now())
	if err != nil {
		return domain.ErrNotFound
	}
	if p.Status != domain.ProductActive {
		return domain.ErrNotFound
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.UpsertItem(cartID, productID, color, size, qty, p.Price)
}

func (s *CartService) SetQty(sessionID, productID, color, size string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.SetQty(cartID, productID, color, size, qty)
}

func (s *CartService) Remove(sessionID, productID, color, size string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID, color, size)
}

type CartView struct {
	Items []repos.CartItemRow
	Total float64
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, it := range items {
		total += it.Subtotal
	}
	return CartView{Items: items, Total: total}, nil
}
