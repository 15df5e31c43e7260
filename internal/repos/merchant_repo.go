package repos

import (
	"strings"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type MerchantRepo struct{ db *sqlx.DB }

func NewMerchantRepo(db *sqlx.DB) *MerchantRepo { return &MerchantRepo{db: db} }

const merchantColumns = `
  id, name, slug, category, status, verified, contact_email, phone,
  street, city, country, description, currency, support_email, shipping_note,
  created_at, updated_at`

func (r *MerchantRepo) Get(id string) (domain.Merchant, error) {
	var m domain.Merchant
	err := r.db.Get(&m, `SELECT`+merchantColumns+` FROM merchants WHERE id = ?`, id)
	return m, err
}

func (r *MerchantRepo) GetBySlug(slug string) (domain.Merchant, error) {
	var m domain.Merchant
	err := r.db.Get(&m, `SELECT`+merchantColumns+` FROM merchants WHERE slug = ?`, slug)
	return m, err
}

func (r *MerchantRepo) List() ([]domain.Merchant, error) {
	out := []domain.Merchant{}
	err := r.db.Select(&out, `SELECT`+merchantColumns+` FROM merchants ORDER BY name`)
	return out, err
}

// SettingsUpdate is the merchant settings form as a per-field patch.
type SettingsUpdate struct {
	Name         *string
	Category     *string
	ContactEmail *string
	Phone        *string
	Street       *string
	City         *string
	Country      *string
	Description  *string
	Currency     *string
	SupportEmail *string
	ShippingNote *string
}

func (r *MerchantRepo) UpdateSettings(id string, u SettingsUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.ContactEmail != nil {
		add("contact_email", *u.ContactEmail)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.Street != nil {
		add("street", *u.Street)
	}
	if u.City != nil {
		add("city", *u.City)
	}
	if u.Country != nil {
		add("country", *u.Country)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Currency != nil {
		add("currency", *u.Currency)
	}
	if u.SupportEmail != nil {
		add("support_email", *u.SupportEmail)
	}
	if u.ShippingNote != nil {
		add("shipping_note", *u.ShippingNote)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	res, err := r.db.Exec(`UPDATE merchants SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		append(args, id)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MerchantRepo) SetVerified(id string, verified bool) error {
	res, err := r.db.Exec(`
	  UPDATE merchants SET verified = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, verified, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MerchantRepo) SetStatus(id, status string) error {
	res, err := r.db.Exec(`
	  UPDATE merchants SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
