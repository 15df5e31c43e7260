package repos

import (
	"database/sql"
	"errors"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- List summary (admin + customer history) ----------
type OrderSummary struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	UserName  string  `db:"user_name"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
}

// ---------- Order detail ----------
type OrderItemRow struct {
	ProductID    string  `db:"product_id"`
	Name         string  `db:"name"`
	MerchantName string  `db:"merchant_name"`
	Qty          int     `db:"qty"`
	Price        float64 `db:"price"`
	Total        float64 `db:"total"`
	Color        string  `db:"color"`
	Size         string  `db:"size"`
}

func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, user_id, status, total, payment_kind, payment_method_id, address_id, created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.Status, o.Total, o.PaymentKind, o.PaymentMethodID, o.AddressID)
	return err
}

func (r *OrderRepo) InsertItem(it domain.OrderItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, merchant_id, qty, price, total, color, size)
	  VALUES(?,?,?,?,?,?,?,?)
	`, it.OrderID, it.ProductID, it.MerchantID, it.Qty, it.Price, it.Total, it.Color, it.Size)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT id, user_id, status, total, payment_kind, payment_method_id, address_id, created_at, updated_at
	  FROM orders WHERE id = ?
	`, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, nil, domain.ErrNotFound
		}
		return domain.Order{}, nil, err
	}

	items := []OrderItemRow{}
	if err := r.db.Select(&items, `
	  SELECT oi.product_id, p.name, m.name AS merchant_name,
	         oi.qty, oi.price, oi.total, oi.color, oi.size
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  JOIN merchants m ON m.id = oi.merchant_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := r.db.Select(&out, `
	  SELECT o.id, o.user_id, u.name AS user_name, o.total, o.status, o.created_at
	  FROM orders o JOIN users u ON u.id = o.user_id
	  ORDER BY datetime(o.created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	out := []OrderSummary{}
	err := r.db.Select(&out, `
	  SELECT o.id, o.user_id, u.name AS user_name, o.total, o.status, o.created_at
	  FROM orders o JOIN users u ON u.id = o.user_id
	  WHERE o.user_id = ?
	  ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListForMerchant returns orders that contain at least one of the
// merchant's items, for the merchant dashboard.
func (r *OrderRepo) ListForMerchant(merchantID string, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 25
	}
	out := []OrderSummary{}
	err := r.db.Select(&out, `
	  SELECT DISTINCT o.id, o.user_id, u.name AS user_name, o.total, o.status, o.created_at
	  FROM orders o
	  JOIN users u ON u.id = o.user_id
	  JOIN order_items oi ON oi.order_id = o.id
	  WHERE oi.merchant_id = ?
	  ORDER BY datetime(o.created_at) DESC
	  LIMIT ?
	`, merchantID, limit)
	return out, err
}

// UpdateStatus moves the order only when the stored status still equals
// the expected one, so concurrent transitions can't skip a step.
func (r *OrderRepo) UpdateStatus(id, from, to string) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTransition
	}
	return nil
}
