package repos

import (
	"strings"
	"time"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// newWindow is how long a product counts as "new" after creation. The flag
// is computed at read time against the caller's clock, never stored.
const newWindow = 30 * 24 * time.Hour

// ProductQuery carries every optional filter dimension of a catalog read.
// Zero values mean "no constraint"; "all" is treated the same as empty.
type ProductQuery struct {
	Search     string
	Category   string
	MerchantID string
	MinPrice   *float64 // inclusive
	MaxPrice   *float64 // inclusive
	OnSale     bool
	IsNew      bool
	SortBy     string // featured | price | createdAt | name
	SortOrder  string // asc | desc
	Page       int
	PageSize   int
	Status     string // merchant/admin paths only; public reads ignore it
}

// ProductRow is a catalog result with the read-time derivations attached.
type ProductRow struct {
	domain.Product
	MerchantName string `db:"merchant_name" json:"merchantName"`
	IsNew        bool   `db:"is_new" json:"isNew"`
	OnSaleFlag   bool   `db:"on_sale" json:"onSale"`
}

const productColumns = `
  p.id, p.merchant_id, p.name, p.description, p.category,
  p.price, p.original_price, p.images_json, p.status, p.is_featured,
  p.stock, p.min_stock, p.max_stock, p.created_at, p.updated_at,
  m.name AS merchant_name,
  CASE WHEN datetime(p.created_at) >= datetime(?) THEN 1 ELSE 0 END AS is_new,
  CASE WHEN p.original_price > p.price THEN 1 ELSE 0 END AS on_sale`

func sqlTime(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") }

// buildWhere translates the optional filters into a conjunction of SQL
// predicates. Only the text-search clause is an OR, and only across the
// product name, description and merchant name.
func buildWhere(q ProductQuery, cutoff string) (string, []any) {
	conds := []string{}
	args := []any{}

	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, `(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(m.name) LIKE ?)`)
		args = append(args, like, like, like)
	}
	if q.Category != "" && q.Category != "all" {
		conds = append(conds, `p.category = ?`)
		args = append(args, q.Category)
	}
	if q.MerchantID != "" && q.MerchantID != "all" {
		conds = append(conds, `p.merchant_id = ?`)
		args = append(args, q.MerchantID)
	}
	if q.MinPrice != nil {
		conds = append(conds, `p.price >= ?`)
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		conds = append(conds, `p.price <= ?`)
		args = append(args, *q.MaxPrice)
	}
	if q.OnSale {
		conds = append(conds, `p.original_price > p.price`)
	}
	if q.IsNew {
		conds = append(conds, `datetime(p.created_at) >= datetime(?)`)
		args = append(args, cutoff)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " AND " + strings.Join(conds, " AND "), args
}

// orderClause whitelists sort keys. Featured is a compound order; every
// sort breaks ties by recency.
func orderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	switch sortBy {
	case "price":
		return "p.price " + dir + ", datetime(p.created_at) DESC"
	case "name":
		return "LOWER(p.name) " + dir + ", datetime(p.created_at) DESC"
	case "createdAt", "created_at":
		return "datetime(p.created_at) " + dir
	default: // featured / relevance
		return "p.is_featured DESC, datetime(p.created_at) DESC"
	}
}

// Find runs the public catalog query: the ACTIVE gate is unconditional and
// independent of the caller-supplied filters.
func (r *ProductRepo) Find(q ProductQuery, now time.Time) ([]ProductRow, Pagination, error) {
	cutoff := sqlTime(now.Add(-newWindow))
	where, filterArgs := buildWhere(q, cutoff)

	var total int
	countSQL := `
	  SELECT COUNT(*)
	  FROM products p JOIN merchants m ON m.id = p.merchant_id
	  WHERE p.status = 'ACTIVE'` + where
	if err := r.db.Get(&total, countSQL, filterArgs...); err != nil {
		return nil, Pagination{}, err
	}

	pg := NewPagination(q.Page, q.PageSize, total)

	sql := `
	  SELECT` + productColumns + `
	  FROM products p JOIN merchants m ON m.id = p.merchant_id
	  WHERE p.status = 'ACTIVE'` + where + `
	  ORDER BY ` + orderClause(q.SortBy, q.SortOrder) + `
	  LIMIT ? OFFSET ?`
	args := append([]any{cutoff}, filterArgs...)
	args = append(args, pg.PageSize, pg.Offset())

	out := []ProductRow{}
	if err := r.db.Select(&out, sql, args...); err != nil {
		return nil, Pagination{}, err
	}
	return out, pg, nil
}

// FindForMerchant is the inventory listing: same composition, but gated on
// ownership instead of public visibility. An explicit status filter is
// allowed here so merchants can see their drafts and archived rows.
func (r *ProductRepo) FindForMerchant(merchantID string, q ProductQuery, now time.Time) ([]ProductRow, Pagination, error) {
	cutoff := sqlTime(now.Add(-newWindow))
	q.MerchantID = "" // ownership comes from the gate, not the filter
	where, filterArgs := buildWhere(q, cutoff)

	gate := `p.merchant_id = ?`
	gateArgs := []any{merchantID}
	if q.Status != "" && q.Status != "all" {
		gate += ` AND p.status = ?`
		gateArgs = append(gateArgs, q.Status)
	}

	var total int
	countSQL := `
	  SELECT COUNT(*)
	  FROM products p JOIN merchants m ON m.id = p.merchant_id
	  WHERE ` + gate + where
	if err := r.db.Get(&total, countSQL, append(gateArgs, filterArgs...)...); err != nil {
		return nil, Pagination{}, err
	}

	pg := NewPagination(q.Page, q.PageSize, total)

	sql := `
	  SELECT` + productColumns + `
	  FROM products p JOIN merchants m ON m.id = p.merchant_id
	  WHERE ` + gate + where + `
	  ORDER BY ` + orderClause(q.SortBy, q.SortOrder) + `
	  LIMIT ? OFFSET ?`
	args := append([]any{cutoff}, gateArgs...)
	args = append(args, filterArgs...)
	args = append(args, pg.PageSize, pg.Offset())

	out := []ProductRow{}
	if err := r.db.Select(&out, sql, args...); err != nil {
		return nil, Pagination{}, err
	}
	return out, pg, nil
}

// Brand is a facet entry: an active merchant selectable as a filter.
type Brand struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type ProductFacets struct {
	Categories []string `json:"categories"`
	Brands     []Brand  `json:"brands"`
}

// Facets returns the sidebar data. Deliberately independent of the current
// filter so the UI can always offer every dimension.
func (r *ProductRepo) Facets() (ProductFacets, error) {
	f := ProductFacets{Categories: []string{}, Brands: []Brand{}}
	if err := r.db.Select(&f.Categories, `
	  SELECT DISTINCT category FROM products
	  WHERE status = 'ACTIVE' AND category != ''
	  ORDER BY category
	`); err != nil {
		return f, err
	}
	err := r.db.Select(&f.Brands, `
	  SELECT id, name FROM merchants
	  WHERE status = 'ACTIVE'
	  ORDER BY name
	`)
	return f, err
}

func (r *ProductRepo) Get(id string, now time.Time) (ProductRow, error) {
	cutoff := sqlTime(now.Add(-newWindow))
	var p ProductRow
	err := r.db.Get(&p, `
	  SELECT`+productColumns+`
	  FROM products p JOIN merchants m ON m.id = p.merchant_id
	  WHERE p.id = ?
	`, cutoff, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.MerchantID, p.Name, p.Description, p.Category, p.Price,
		p.OriginalPrice, p.ImagesJSON, p.Status, p.IsFeatured, p.Stock, p.MinStock, p.MaxStock)
	return err
}

// ProductUpdate is a per-field optional patch; nil means "leave unchanged".
type ProductUpdate struct {
	Name          *string
	Description   *string
	Category      *string
	Price         *float64
	OriginalPrice *float64
	ImagesJSON    *string
	IsFeatured    *bool
	MinStock      *int
	MaxStock      *int
}

func (r *ProductRepo) Update(id, merchantID string, u ProductUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.OriginalPrice != nil {
		add("original_price", *u.OriginalPrice)
	}
	if u.ImagesJSON != nil {
		add("images_json", *u.ImagesJSON)
	}
	if u.IsFeatured != nil {
		add("is_featured", *u.IsFeatured)
	}
	if u.MinStock != nil {
		add("min_stock", *u.MinStock)
	}
	if u.MaxStock != nil {
		add("max_stock", *u.MaxStock)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	sql := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND merchant_id = ?`
	args = append(args, id, merchantID)
	res, err := r.db.Exec(sql, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus moves a product through its lifecycle; rows are never hard-deleted.
func (r *ProductRepo) SetStatus(id, merchantID, status string) error {
	res, err := r.db.Exec(`
	  UPDATE products SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND merchant_id = ?
	`, status, id, merchantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) SetStock(id, merchantID string, stock int) error {
	res, err := r.db.Exec(`
	  UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND merchant_id = ?
	`, stock, id, merchantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty if enough stock exists; checkout calls this
// per line item.
func (r *ProductRepo) DecrementStock(id string, qty int) error {
	res, err := r.db.Exec(`
	  UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, qty, id, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotEnoughStock
	}
	return nil
}
