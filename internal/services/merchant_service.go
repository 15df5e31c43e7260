package services

import (
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/validate"

	"github.com/google/uuid"
)

type MerchantService struct {
	Merchants *repos.MerchantRepo
	Prods     *repos.ProductRepo
	Orders    *repos.OrderRepo
}

func NewMerchantService(merchants *repos.MerchantRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *MerchantService {
	return &MerchantService{Merchants: merchants, Prods: prods, Orders: orders}
}

// Inventory reuses the catalog query builder with the ownership gate, so
// filter/sort/pagination behave identically to the storefront.
func (s *MerchantService) Inventory(merchantID string, q repos.ProductQuery, now time.Time) ([]repos.ProductRow, repos.Pagination, error) {
	return s.Prods.FindForMerchant(merchantID, q, now)
}

type ProductInput struct {
	Name          string  `validate:"required,max=120"`
	Description   string  `validate:"max=4000"`
	Category      string  `validate:"required,max=40"`
	Price         float64 `validate:"required,gt=0"`
	OriginalPrice float64 `validate:"gte=0"`
	MinStock      int     `validate:"gte=0"`
	MaxStock      int     `validate:"gte=1"`
}

// CreateProduct inserts a DRAFT row; publishing is an explicit transition.
func (s *MerchantService) CreateProduct(merchantID string, in ProductInput) (string, map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return "", fields, domain.ErrValidation
	}
	id := uuid.NewString()
	err := s.Prods.Create(domain.Product{
		ID:            id,
		MerchantID:    merchantID,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		ImagesJSON:    "[]",
		Status:        domain.ProductDraft,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
	})
	return id, nil, err
}

func (s *MerchantService) UpdateProduct(id, merchantID string, u repos.ProductUpdate) error {
	return s.Prods.Update(id, merchantID, u)
}

// Publish / Archive / Restore move a product through its lifecycle; rows
// are never hard-deleted.
func (s *MerchantService) Publish(id, merchantID string) error {
	return s.Prods.SetStatus(id, merchantID, domain.ProductActive)
}

func (s *MerchantService) Archive(id, merchantID string) error {
	return s.Prods.SetStatus(id, merchantID, domain.ProductArchived)
}

func (s *MerchantService) Restore(id, merchantID string) error {
	return s.Prods.SetStatus(id, merchantID, domain.ProductDraft)
}

// UpdateStock clamps into [0, max_stock] rather than rejecting, matching
// the permissive read-side policy for merchant tooling.
func (s *MerchantService) UpdateStock(id, merchantID string, stock int) error {
	p, err := s.Prods.Get(id, time.Now())
	if err != nil || p.MerchantID != merchantID {
		return domain.ErrNotFound
	}
	if stock < 0 {
		stock = 0
	}
	if p.MaxStock > 0 && stock > p.MaxStock {
		stock = p.MaxStock
	}
	return s.Prods.SetStock(id, merchantID, stock)
}

// StockLevel classifies against the product's own floor.
func StockLevel(stock, minStock int) string {
	switch {
	case stock <= 0:
		return "OUT_OF_STOCK"
	case stock <= minStock:
		return "LOW_STOCK"
	default:
		return "IN_STOCK"
	}
}

type SettingsInput struct {
	Name         string `validate:"required,max=80"`
	Category     string `validate:"max=40"`
	ContactEmail string `validate:"omitempty,email"`
	Phone        string `validate:"max=20"`
	Street       string `validate:"max=120"`
	City         string `validate:"max=60"`
	Country      string `validate:"max=60"`
	Description  string `validate:"max=2000"`
	Currency     string `validate:"required,oneof=USD EUR GBP JPY"`
	SupportEmail string `validate:"omitempty,email"`
	ShippingNote string `validate:"max=500"`
}

// UpdateSettings is the merchant settings form: strict validation with
// field-level errors, then a single patch write.
func (s *MerchantService) UpdateSettings(merchantID string, in SettingsInput) (map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return fields, domain.ErrValidation
	}
	err := s.Merchants.UpdateSettings(merchantID, repos.SettingsUpdate{
		Name:         &in.Name,
		Category:     &in.Category,
		ContactEmail: &in.ContactEmail,
		Phone:        &in.Phone,
		Street:       &in.Street,
		City:         &in.City,
		Country:      &in.Country,
		Description:  &in.Description,
		Currency:     &in.Currency,
		SupportEmail: &in.SupportEmail,
		ShippingNote: &in.ShippingNote,
	})
	return nil, err
}

type Dashboard struct {
	ProductCount int
	LowStock     int
	RecentOrders []repos.OrderSummary
}

func (s *MerchantService) Dashboard(merchantID string, now time.Time) (Dashboard, error) {
	rows, pg, err := s.Prods.FindForMerchant(merchantID, repos.ProductQuery{PageSize: repos.MaxPageSize}, now)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{ProductCount: pg.TotalItems}
	for _, p := range rows {
		if p.Status == domain.ProductActive && StockLevel(p.Stock, p.MinStock) != "IN_STOCK" {
			d.LowStock++
		}
	}
	d.RecentOrders, err = s.Orders.ListForMerchant(merchantID, 25)
	return d, err
}
