package repos

import (
	"database/sql"
	"errors"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AddressRepo struct{ db *sqlx.DB }

func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

const addressColumns = `
  id, user_id, label, recipient, street, city, region, postal_code,
  country, phone, is_default, created_at, updated_at`

func (r *AddressRepo) ListByUser(userID string) ([]domain.Address, error) {
	out := []domain.Address{}
	err := r.db.Select(&out, `
	  SELECT`+addressColumns+`
	  FROM addresses WHERE user_id = ?
	  ORDER BY is_default DESC, datetime(created_at) DESC
	`, userID)
	return out, err
}

// Get resolves an address only within the caller's ownership; an id that
// exists but belongs to someone else reads as not found.
func (r *AddressRepo) Get(id, userID string) (domain.Address, error) {
	var a domain.Address
	err := r.db.Get(&a, `SELECT`+addressColumns+` FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return a, domain.ErrNotFound
	}
	return a, err
}

// Create inserts the address inside a transaction: when it is flagged
// default, the previous default is un-flagged in the same logical operation.
func (r *AddressRepo) Create(a domain.Address) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default = 0 WHERE user_id = ?`, a.UserID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
	  INSERT INTO addresses(id, user_id, label, recipient, street, city, region,
	    postal_code, country, phone, is_default, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, a.ID, a.UserID, a.Label, a.Recipient, a.Street, a.City, a.Region,
		a.PostalCode, a.Country, a.Phone, a.IsDefault); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AddressRepo) Update(a domain.Address) error {
	res, err := r.db.Exec(`
	  UPDATE addresses
	  SET label = ?, recipient = ?, street = ?, city = ?, region = ?,
	      postal_code = ?, country = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND user_id = ?
	`, a.Label, a.Recipient, a.Street, a.City, a.Region,
		a.PostalCode, a.Country, a.Phone, a.ID, a.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDefault un-marks every other address of the user and marks the target,
// atomically. The partial unique index on (user_id) WHERE is_default=1
// backs this up at the storage level.
func (r *AddressRepo) SetDefault(id, userID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE addresses SET is_default = 0 WHERE user_id = ?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`
	  UPDATE addresses SET is_default = 1, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// Delete rejects removal of the current default: another record has to be
// made default first.
func (r *AddressRepo) Delete(id, userID string) error {
	a, err := r.Get(id, userID)
	if err != nil {
		return err
	}
	if a.IsDefault {
		return domain.ErrDefaultRecord
	}
	res, err := r.db.Exec(`DELETE FROM addresses WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
