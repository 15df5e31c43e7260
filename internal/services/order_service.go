package services

import (
	"errors"
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"

	"github.com/google/uuid"
)

type OrderService struct {
	Carts     *repos.CartRepo
	Prods     *repos.ProductRepo
	Orders    *repos.OrderRepo
	Addresses *repos.AddressRepo
	Payments  *repos.PaymentMethodRepo
	Notifs    *repos.NotificationRepo
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo,
	addrs *repos.AddressRepo, pays *repos.PaymentMethodRepo, notifs *repos.NotificationRepo) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Addresses: addrs, Payments: pays, Notifs: notifs}
}

// Place converts the session cart into a PENDING order. The shipping
// address and payment method must belong to the ordering user; each line
// item's total is price x qty, and the order total is the sum of the lines.
func (s *OrderService) Place(userID, sessionID, addressID, paymentMethodID string) (string, error) {
	if _, err := s.Addresses.Get(addressID, userID); err != nil {
		return "", err
	}
	pm, err := s.Payments.Get(paymentMethodID, userID)
	if err != nil {
		return "", err
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New("cart empty")
	}

	// check every line's stock before decrementing any of it: a cart that
	// cannot be fulfilled must not leave partial decrements behind
	need := map[string]int{}
	for _, it := range items {
		need[it.ProductID] += it.Qty
	}
	now := time.Now()
	for pid, qty := range need {
		p, err := s.Prods.Get(pid, now)
		if err != nil {
			return "", err
		}
		if p.Stock < qty {
			return "", domain.ErrNotEnoughStock
		}
	}
	for _, it := range items {
		if err := s.Prods.DecrementStock(it.ProductID, it.Qty); err != nil {
			return "", err
		}
	}

	total := 0.0
	for _, it := range items {
		total += it.PriceAtAdd * float64(it.Qty)
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(domain.Order{
		ID:              orderID,
		UserID:          userID,
		Status:          domain.OrderPending,
		Total:           total,
		PaymentKind:     pm.Kind,
		PaymentMethodID: pm.ID,
		AddressID:       addressID,
	}); err != nil {
		return "", err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(domain.OrderItem{
			OrderID:    orderID,
			ProductID:  it.ProductID,
			MerchantID: it.MerchantID,
			Qty:        it.Qty,
			Price:      it.PriceAtAdd,
			Total:      it.PriceAtAdd * float64(it.Qty),
			Color:      it.Color,
			Size:       it.Size,
		}); err != nil {
			return "", err
		}
	}
	_ = s.Carts.Clear(cartID)

	_ = s.Notifs.Create(domain.Notification{
		ID:     uuid.NewString(),
		UserID: userID,
		Kind:   "ORDER",
		Title:  "Order placed",
		Body:   "Your order " + orderID + " was received and is pending.",
	})

	return orderID, nil
}

// Transition moves an order along the legal status graph and notifies the
// customer. Illegal moves return ErrTransition.
func (s *OrderService) Transition(orderID, to string) error {
	o, _, err := s.Orders.Get(orderID)
	if err != nil {
		return err
	}
	if !domain.CanTransitionOrder(o.Status, to) {
		return domain.ErrTransition
	}
	if err := s.Orders.UpdateStatus(orderID, o.Status, to); err != nil {
		return err
	}
	_ = s.Notifs.Create(domain.Notification{
		ID:     uuid.NewString(),
		UserID: o.UserID,
		Kind:   "ORDER",
		Title:  "Order " + to,
		Body:   "Your order " + orderID + " is now " + to + ".",
	})
	return nil
}

// GetForUser enforces ownership: someone else's order id reads as not found.
func (s *OrderService) GetForUser(orderID, userID string) (domain.Order, []repos.OrderItemRow, error) {
	o, items, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if o.UserID != userID {
		return domain.Order{}, nil, domain.ErrNotFound
	}
	return o, items, nil
}

func (s *OrderService) History(userID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByUser(userID)
}
