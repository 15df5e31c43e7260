package services

import (
	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/validate"

	"github.com/google/uuid"
)

// AccountService owns the customer-profile aggregates: addresses and
// payment methods, including the single-default invariant.
type AccountService struct {
	Addresses *repos.AddressRepo
	Payments  *repos.PaymentMethodRepo
}

func NewAccountService(addrs *repos.AddressRepo, pays *repos.PaymentMethodRepo) *AccountService {
	return &AccountService{Addresses: addrs, Payments: pays}
}

type AddressInput struct {
	Label      string `validate:"max=40"`
	Recipient  string `validate:"required,max=80"`
	Street     string `validate:"required,max=120"`
	City       string `validate:"required,max=60"`
	Region     string `validate:"max=60"`
	PostalCode string `validate:"required,min=3,max=10"`
	Country    string `validate:"required,max=60"`
	Phone      string `validate:"max=20"`
	IsDefault  bool
}

// CreateAddress validates strictly (unlike filter parsing) and returns
// field-level errors for the form.
func (s *AccountService) CreateAddress(userID string, in AddressInput) (string, map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return "", fields, domain.ErrValidation
	}
	id := uuid.NewString()
	err := s.Addresses.Create(domain.Address{
		ID:         id,
		UserID:     userID,
		Label:      in.Label,
		Recipient:  in.Recipient,
		Street:     in.Street,
		City:       in.City,
		Region:     in.Region,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
		IsDefault:  in.IsDefault,
	})
	return id, nil, err
}

func (s *AccountService) UpdateAddress(id, userID string, in AddressInput) (map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return fields, domain.ErrValidation
	}
	err := s.Addresses.Update(domain.Address{
		ID:         id,
		UserID:     userID,
		Label:      in.Label,
		Recipient:  in.Recipient,
		Street:     in.Street,
		City:       in.City,
		Region:     in.Region,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
	})
	return nil, err
}

func (s *AccountService) ListAddresses(userID string) ([]domain.Address, error) {
	return s.Addresses.ListByUser(userID)
}

func (s *AccountService) SetDefaultAddress(id, userID string) error {
	return s.Addresses.SetDefault(id, userID)
}

// DeleteAddress refuses to remove the current default (ErrDefaultRecord);
// the caller must promote another address first.
func (s *AccountService) DeleteAddress(id, userID string) error {
	return s.Addresses.Delete(id, userID)
}

type PaymentMethodInput struct {
	Kind      string `validate:"required,oneof=CARD PAYPAL BANK"`
	Brand     string `validate:"max=20"`
	Last4     string `validate:"omitempty,len=4,numeric"`
	Expiry    string `validate:"max=7"`
	Holder    string `validate:"max=80"`
	IsDefault bool
}

func (s *AccountService) CreatePaymentMethod(userID string, in PaymentMethodInput) (string, map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return "", fields, domain.ErrValidation
	}
	id := uuid.NewString()
	err := s.Payments.Create(domain.PaymentMethod{
		ID:        id,
		UserID:    userID,
		Kind:      in.Kind,
		Brand:     in.Brand,
		Last4:     in.Last4,
		Expiry:    in.Expiry,
		Holder:    in.Holder,
		IsDefault: in.IsDefault,
	})
	return id, nil, err
}

func (s *AccountService) ListPaymentMethods(userID string) ([]domain.PaymentMethod, error) {
	return s.Payments.ListByUser(userID)
}

func (s *AccountService) SetDefaultPaymentMethod(id, userID string) error {
	return s.Payments.SetDefault(id, userID)
}

func (s *AccountService) DeletePaymentMethod(id, userID string) error {
	return s.Payments.Delete(id, userID)
}
