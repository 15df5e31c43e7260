package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID  string  `db:"product_id"`
	Name       string  `db:"name"`
	MerchantID string  `db:"merchant_id"`
	Color      string  `db:"color"`
	Size       string  `db:"size"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
	Subtotal   float64 `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// UpsertItem adds qty onto an existing line for the same product+variant.
func (r *CartRepo) UpsertItem(cartID, productID, color, size string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,color,size,qty,price_at_add,created_at)
	  VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id,product_id,color,size) DO UPDATE
	  SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, color, size, qty, price)
	return err
}

func (r *CartRepo) SetQty(cartID, productID, color, size string, qty int) error {
	if qty < 1 {
		return r.RemoveItem(cartID, productID, color, size)
	}
	_, err := r.db.Exec(`
	  UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE cart_id = ? AND product_id = ? AND color = ? AND size = ?
	`, qty, cartID, productID, color, size)
	return err
}

func (r *CartRepo) RemoveItem(cartID, productID, color, size string) error {
	_, err := r.db.Exec(`
	  DELETE FROM cart_items
	  WHERE cart_id = ? AND product_id = ? AND color = ? AND size = ?
	`, cartID, productID, color, size)
	return err
}

func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	out := []CartItemRow{}
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.name, p.merchant_id, ci.color, ci.size, ci.qty,
	         ci.price_at_add, (ci.qty * ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY p.name
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin folds an anonymous session cart into the user's cart once
// they authenticate, summing quantities per product+variant line.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	if !anonID.Valid {
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	if !userCartID.Valid {
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	type line struct {
		ProductID  string  `db:"product_id"`
		Color      string  `db:"color"`
		Size       string  `db:"size"`
		Qty        int     `db:"qty"`
		PriceAtAdd float64 `db:"price_at_add"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT product_id, color, size, qty, price_at_add FROM cart_items WHERE cart_id=?`, anonID.String); err != nil {
		return err
	}

	for _, it := range lines {
		_, err := tx.Exec(`
		  INSERT INTO cart_items(cart_id, product_id, color, size, qty, price_at_add, created_at, updated_at)
		  VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		  ON CONFLICT(cart_id, product_id, color, size) DO UPDATE SET
		    qty = qty + excluded.qty,
		    updated_at = CURRENT_TIMESTAMP
		`, userCartID.String, it.ProductID, it.Color, it.Size, it.Qty, it.PriceAtAdd)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, anonID.String); err != nil {
		return err
	}
	_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)

	return tx.Commit()
}
