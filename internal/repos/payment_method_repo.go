package repos

import (
	"database/sql"
	"errors"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PaymentMethodRepo struct{ db *sqlx.DB }

func NewPaymentMethodRepo(db *sqlx.DB) *PaymentMethodRepo { return &PaymentMethodRepo{db: db} }

const paymentColumns = `
  id, user_id, kind, brand, last4, expiry, holder, is_default, created_at`

func (r *PaymentMethodRepo) ListByUser(userID string) ([]domain.PaymentMethod, error) {
	out := []domain.PaymentMethod{}
	err := r.db.Select(&out, `
	  SELECT`+paymentColumns+`
	  FROM payment_methods WHERE user_id = ?
	  ORDER BY is_default DESC, datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *PaymentMethodRepo) Get(id, userID string) (domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	err := r.db.Get(&pm, `SELECT`+paymentColumns+` FROM payment_methods WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return pm, domain.ErrNotFound
	}
	return pm, err
}

func (r *PaymentMethodRepo) Create(pm domain.PaymentMethod) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if pm.IsDefault {
		if _, err := tx.Exec(`UPDATE payment_methods SET is_default = 0 WHERE user_id = ?`, pm.UserID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
	  INSERT INTO payment_methods(id, user_id, kind, brand, last4, expiry, holder, is_default, created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, pm.ID, pm.UserID, pm.Kind, pm.Brand, pm.Last4, pm.Expiry, pm.Holder, pm.IsDefault); err != nil {
		return err
	}
	return tx.Commit()
}

// SetDefault mirrors AddressRepo.SetDefault: unset-then-set in one
// transaction, with the partial unique index as the storage-level backstop.
func (r *PaymentMethodRepo) SetDefault(id, userID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE payment_methods SET is_default = 0 WHERE user_id = ?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE payment_methods SET is_default = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *PaymentMethodRepo) Delete(id, userID string) error {
	pm, err := r.Get(id, userID)
	if err != nil {
		return err
	}
	if pm.IsDefault {
		return domain.ErrDefaultRecord
	}
	res, err := r.db.Exec(`DELETE FROM payment_methods WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
