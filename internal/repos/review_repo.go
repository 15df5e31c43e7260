package repos

import (
	"strings"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

type ReviewRow struct {
	domain.Review
	UserName string `db:"user_name"`
}

func (r *ReviewRepo) ListByProduct(productID string) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.title, rv.body,
	         rv.created_at, u.name AS user_name
	  FROM reviews rv JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ?
	  ORDER BY datetime(rv.created_at) DESC
	`, productID)
	return out, err
}

// Summary returns the average rating and count for a product page header.
func (r *ReviewRepo) Summary(productID string) (avg float64, count int, err error) {
	var row struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err = r.db.Get(&row, `
	  SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
	  FROM reviews WHERE product_id = ?
	`, productID)
	return row.Avg, row.Count, err
}

// Create enforces one review per (product, user) via the unique constraint.
func (r *ReviewRepo) Create(rv domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, product_id, user_id, rating, title, body, created_at)
	  VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Title, rv.Body)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrDuplicate
	}
	return err
}

func (r *ReviewRepo) Update(rv domain.Review) error {
	res, err := r.db.Exec(`
	  UPDATE reviews SET rating = ?, title = ?, body = ?
	  WHERE id = ? AND user_id = ?
	`, rv.Rating, rv.Title, rv.Body, rv.ID, rv.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(id, userID string) error {
	res, err := r.db.Exec(`DELETE FROM reviews WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
