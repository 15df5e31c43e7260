package repos

import (
	"strings"

	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CollectionRepo struct{ db *sqlx.DB }

func NewCollectionRepo(db *sqlx.DB) *CollectionRepo { return &CollectionRepo{db: db} }

type CollectionQuery struct {
	Search    string
	Season    string
	Year      int // 0 = unconstrained
	Featured  bool
	SortBy    string // displayOrder | year | name | createdAt
	SortOrder string
	Page      int
	PageSize  int
	Status    string // admin path only
}

type CollectionFacets struct {
	Seasons []string `json:"seasons"`
	Years   []int    `json:"years"`
}

func buildCollectionWhere(q CollectionQuery) (string, []any) {
	conds := []string{}
	args := []any{}

	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`)
		args = append(args, like, like)
	}
	if q.Season != "" && q.Season != "all" {
		conds = append(conds, `season = ?`)
		args = append(args, q.Season)
	}
	if q.Year > 0 {
		conds = append(conds, `year = ?`)
		args = append(args, q.Year)
	}
	if q.Featured {
		conds = append(conds, `is_featured = 1`)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " AND " + strings.Join(conds, " AND "), args
}

func collectionOrder(sortBy, sortOrder string) string {
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	switch sortBy {
	case "year":
		return "year " + dir + ", display_order ASC"
	case "name":
		return "LOWER(name) " + dir
	case "createdAt", "created_at":
		return "datetime(created_at) " + dir
	default:
		return "display_order " + dir + ", datetime(created_at) DESC"
	}
}

// Find lists publicly visible collections; the ACTIVE gate is unconditional.
func (r *CollectionRepo) Find(q CollectionQuery) ([]domain.Collection, Pagination, error) {
	where, filterArgs := buildCollectionWhere(q)

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM collections WHERE status = 'ACTIVE'`+where, filterArgs...); err != nil {
		return nil, Pagination{}, err
	}
	pg := NewPagination(q.Page, q.PageSize, total)

	out := []domain.Collection{}
	sql := `
	  SELECT id, name, slug, season, year, status, display_order, is_featured, is_new,
	         min_price, max_price, tags_json, description, created_at, updated_at
	  FROM collections
	  WHERE status = 'ACTIVE'` + where + `
	  ORDER BY ` + collectionOrder(q.SortBy, q.SortOrder) + `
	  LIMIT ? OFFSET ?`
	err := r.db.Select(&out, sql, append(filterArgs, pg.PageSize, pg.Offset())...)
	return out, pg, err
}

// FindAll is the admin listing: drafts and archived rows included unless a
// status filter narrows them.
func (r *CollectionRepo) FindAll(q CollectionQuery) ([]domain.Collection, Pagination, error) {
	where, filterArgs := buildCollectionWhere(q)

	gate := `1=1`
	gateArgs := []any{}
	if q.Status != "" && q.Status != "all" {
		gate = `status = ?`
		gateArgs = append(gateArgs, q.Status)
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM collections WHERE `+gate+where,
		append(gateArgs, filterArgs...)...); err != nil {
		return nil, Pagination{}, err
	}
	pg := NewPagination(q.Page, q.PageSize, total)

	out := []domain.Collection{}
	sql := `
	  SELECT id, name, slug, season, year, status, display_order, is_featured, is_new,
	         min_price, max_price, tags_json, description, created_at, updated_at
	  FROM collections
	  WHERE ` + gate + where + `
	  ORDER BY ` + collectionOrder(q.SortBy, q.SortOrder) + `
	  LIMIT ? OFFSET ?`
	args := append(gateArgs, filterArgs...)
	args = append(args, pg.PageSize, pg.Offset())
	err := r.db.Select(&out, sql, args...)
	return out, pg, err
}

// Facets lists the seasons and years present in active collections,
// independent of the current filter.
func (r *CollectionRepo) Facets() (CollectionFacets, error) {
	f := CollectionFacets{Seasons: []string{}, Years: []int{}}
	if err := r.db.Select(&f.Seasons, `
	  SELECT DISTINCT season FROM collections WHERE status = 'ACTIVE' ORDER BY season
	`); err != nil {
		return f, err
	}
	err := r.db.Select(&f.Years, `
	  SELECT DISTINCT year FROM collections WHERE status = 'ACTIVE' ORDER BY year DESC
	`)
	return f, err
}

func (r *CollectionRepo) GetBySlug(slug string) (domain.Collection, error) {
	var c domain.Collection
	err := r.db.Get(&c, `
	  SELECT id, name, slug, season, year, status, display_order, is_featured, is_new,
	         min_price, max_price, tags_json, description, created_at, updated_at
	  FROM collections WHERE slug = ?
	`, slug)
	return c, err
}

func (r *CollectionRepo) Get(id string) (domain.Collection, error) {
	var c domain.Collection
	err := r.db.Get(&c, `
	  SELECT id, name, slug, season, year, status, display_order, is_featured, is_new,
	         min_price, max_price, tags_json, description, created_at, updated_at
	  FROM collections WHERE id = ?
	`, id)
	return c, err
}

// CollectionProduct is a product as it appears inside a collection: join
// metadata (ordering, highlight, per-collection blurb) attached.
type CollectionProduct struct {
	ProductID    string  `db:"product_id"`
	Name         string  `db:"name"`
	Category     string  `db:"category"`
	Price        float64 `db:"price"`
	ImagesJSON   string  `db:"images_json"`
	MerchantName string  `db:"merchant_name"`
	DisplayOrder int     `db:"display_order"`
	Highlight    bool    `db:"highlight"`
	CustomDesc   string  `db:"custom_desc"`
}

// Products lists a collection's items. The public product gate applies here
// too: archived or draft products drop out of the collection page.
func (r *CollectionRepo) Products(collectionID string) ([]CollectionProduct, error) {
	out := []CollectionProduct{}
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.name, p.category, p.price, p.images_json,
	         m.name AS merchant_name, ci.display_order, ci.highlight, ci.custom_desc
	  FROM collection_items ci
	  JOIN products p ON p.id = ci.product_id
	  JOIN merchants m ON m.id = p.merchant_id
	  WHERE ci.collection_id = ? AND p.status = 'ACTIVE'
	  ORDER BY ci.display_order, LOWER(p.name)
	`, collectionID)
	return out, err
}

func (r *CollectionRepo) Create(c domain.Collection) error {
	_, err := r.db.Exec(`
	  INSERT INTO collections(id, name, slug, season, year, status, display_order,
	    is_featured, is_new, min_price, max_price, tags_json, description, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Slug, c.Season, c.Year, c.Status, c.DisplayOrder,
		c.IsFeatured, c.IsNew, c.MinPrice, c.MaxPrice, c.TagsJSON, c.Description)
	return err
}

type CollectionUpdate struct {
	Name         *string
	Season       *string
	Year         *int
	DisplayOrder *int
	IsFeatured   *bool
	IsNew        *bool
	MinPrice     *float64
	MaxPrice     *float64
	TagsJSON     *string
	Description  *string
}

func (r *CollectionRepo) Update(id string, u CollectionUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Season != nil {
		add("season", *u.Season)
	}
	if u.Year != nil {
		add("year", *u.Year)
	}
	if u.DisplayOrder != nil {
		add("display_order", *u.DisplayOrder)
	}
	if u.IsFeatured != nil {
		add("is_featured", *u.IsFeatured)
	}
	if u.IsNew != nil {
		add("is_new", *u.IsNew)
	}
	if u.MinPrice != nil {
		add("min_price", *u.MinPrice)
	}
	if u.MaxPrice != nil {
		add("max_price", *u.MaxPrice)
	}
	if u.TagsJSON != nil {
		add("tags_json", *u.TagsJSON)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	res, err := r.db.Exec(`UPDATE collections SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		append(args, id)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CollectionRepo) SetStatus(id, status string) error {
	res, err := r.db.Exec(`
	  UPDATE collections SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CollectionRepo) AttachProduct(it domain.CollectionItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO collection_items(collection_id, product_id, display_order, highlight, custom_desc)
	  VALUES(?,?,?,?,?)
	  ON CONFLICT(collection_id, product_id) DO UPDATE
	  SET display_order = excluded.display_order,
	      highlight = excluded.highlight,
	      custom_desc = excluded.custom_desc
	`, it.CollectionID, it.ProductID, it.DisplayOrder, it.Highlight, it.CustomDesc)
	return err
}

func (r *CollectionRepo) DetachProduct(collectionID, productID string) error {
	res, err := r.db.Exec(`
	  DELETE FROM collection_items WHERE collection_id = ? AND product_id = ?
	`, collectionID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
