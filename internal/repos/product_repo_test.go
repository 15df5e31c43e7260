package repos_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"maisonmarket/internal/repos"
)

// memdb opens a fresh in-memory database with the full schema and clears
// the seeded catalog; the seeded merchants stay so joins resolve.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{
		`DELETE FROM reviews`,
		`DELETE FROM wishlist_items`,
		`DELETE FROM cart_items`,
		`DELETE FROM collection_items`,
		`DELETE FROM collections`,
		`DELETE FROM order_items`,
		`DELETE FROM orders`,
		`DELETE FROM products`,
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, id, merchant, name, category string,
	price, orig float64, status string, featured bool, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES(?,?,?,?,?,?,?,'[]',?,?,10,2,100,?)
	`, id, merchant, name, name+" description", category, price, orig,
		status, featured, createdAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		t.Fatal(err)
	}
}

func TestFind_PublicGateIsUnconditional(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-active", "m-chanel", "Tweed Jacket", "jackets", 120, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-draft", "m-chanel", "Draft Jacket", "jackets", 90, 0, "DRAFT", false, now)
	seedProduct(t, db, "p-arch", "m-chanel", "Old Jacket", "jackets", 70, 0, "ARCHIVED", false, now)

	rows, pg, err := r.Find(repos.ProductQuery{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p-active" {
		t.Fatalf("want only the active product, got %+v", rows)
	}
	if pg.TotalItems != 1 {
		t.Fatalf("count must match the gated result set, got %d", pg.TotalItems)
	}
}

func TestFind_FiltersConjoin(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-sale-jacket", "m-chanel", "Sale Jacket", "jackets", 120, 180, "ACTIVE", false, now)
	seedProduct(t, db, "p-full-jacket", "m-chanel", "Full Price Jacket", "jackets", 120, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-sale-bag", "m-dior", "Sale Bag", "bags", 120, 180, "ACTIVE", false, now)

	min := 100.0
	rows, _, err := r.Find(repos.ProductQuery{Category: "jackets", OnSale: true, MinPrice: &min}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p-sale-jacket" {
		t.Fatalf("filters must AND together, got %+v", rows)
	}
}

func TestFind_PriceBoundsInclusive(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-low", "m-chanel", "Low", "bags", 99.99, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-high", "m-chanel", "High", "bags", 500.00, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-over", "m-chanel", "Over", "bags", 500.01, 0, "ACTIVE", false, now)

	min, max := 99.99, 500.00
	rows, _, err := r.Find(repos.ProductQuery{MinPrice: &min, MaxPrice: &max}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("bounds are inclusive: want p-low and p-high, got %+v", rows)
	}
	for _, p := range rows {
		if p.ID == "p-over" {
			t.Fatal("500.01 must fall outside maxPrice=500.00")
		}
	}
}

func TestFind_SearchCoversMerchantName(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-flap", "m-chanel", "Classic Flap", "bags", 8000, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-book", "m-dior", "Book Tote", "bags", 3000, 0, "ACTIVE", false, now)

	rows, _, err := r.Find(repos.ProductQuery{Search: "chanel"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p-flap" {
		t.Fatalf("brand-name search must match via the merchant join, got %+v", rows)
	}
	if rows[0].MerchantName == "" {
		t.Fatal("result rows must carry the merchant name")
	}
}

func TestFind_NewWindowFlipsAtThirtyDays(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-fresh", "m-chanel", "Fresh", "bags", 100, 0, "ACTIVE", false, now.Add(-29*24*time.Hour))
	seedProduct(t, db, "p-stale", "m-chanel", "Stale", "bags", 100, 0, "ACTIVE", false, now.Add(-31*24*time.Hour))

	rows, _, err := r.Find(repos.ProductQuery{}, now)
	if err != nil {
		t.Fatal(err)
	}
	flags := map[string]bool{}
	for _, p := range rows {
		flags[p.ID] = p.IsNew
	}
	if !flags["p-fresh"] || flags["p-stale"] {
		t.Fatalf("is_new must flip at the 30-day window, got %v", flags)
	}

	rows, _, err = r.Find(repos.ProductQuery{IsNew: true}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p-fresh" {
		t.Fatalf("isNew filter must keep only in-window products, got %+v", rows)
	}
}

func TestFind_FeaturedSortAndPagination(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()
	base := now.Add(-48 * time.Hour)

	featured := map[int]bool{10: true, 17: true, 22: true}
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("p-%02d", i)
		seedProduct(t, db, id, "m-chanel", "Item "+id, "bags", 100, 0, "ACTIVE",
			featured[i], base.Add(time.Duration(i)*time.Minute))
	}

	rows, pg, err := r.Find(repos.ProductQuery{SortBy: "featured", PageSize: 20}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 20 {
		t.Fatalf("want a full first page of 20, got %d", len(rows))
	}
	// featured first, newest featured on top
	want := []string{"p-22", "p-17", "p-10"}
	for i, id := range want {
		if rows[i].ID != id {
			t.Fatalf("row %d: want %s, got %s", i, id, rows[i].ID)
		}
	}
	if pg.TotalItems != 25 || pg.TotalPages != 2 || !pg.HasNext || pg.HasPrev {
		t.Fatalf("bad pagination for page 1: %+v", pg)
	}

	rows, pg, err = r.Find(repos.ProductQuery{SortBy: "featured", Page: 2, PageSize: 20}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("want the 5 leftover rows on page 2, got %d", len(rows))
	}
	if pg.HasNext || !pg.HasPrev {
		t.Fatalf("bad pagination for page 2: %+v", pg)
	}
}

func TestFacets_OnlyActiveProducts(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-b", "m-chanel", "Bag", "bags", 100, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-s", "m-dior", "Scarf", "scarves", 100, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-d", "m-dior", "Shoe", "shoes", 100, 0, "DRAFT", false, now)

	facets, err := r.Facets()
	if err != nil {
		t.Fatal(err)
	}
	cats := map[string]bool{}
	for _, c := range facets.Categories {
		cats[c] = true
	}
	if !cats["bags"] || !cats["scarves"] || cats["shoes"] {
		t.Fatalf("facets must reflect active products only, got %v", facets.Categories)
	}
	if len(facets.Brands) == 0 {
		t.Fatal("brand facet must list the active merchants")
	}
}

func TestFindForMerchant_SeesDraftsAndFiltersStatus(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-mine-live", "m-chanel", "Live", "bags", 100, 0, "ACTIVE", false, now)
	seedProduct(t, db, "p-mine-draft", "m-chanel", "Draft", "bags", 100, 0, "DRAFT", false, now)
	seedProduct(t, db, "p-other", "m-dior", "Other", "bags", 100, 0, "ACTIVE", false, now)

	rows, _, err := r.FindForMerchant("m-chanel", repos.ProductQuery{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("merchant view includes own drafts, excludes other stores: %+v", rows)
	}

	// the ownership pin wins over whatever the caller put in the query
	rows, _, err = r.FindForMerchant("m-chanel", repos.ProductQuery{MerchantID: "m-dior"}, now)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range rows {
		if p.MerchantID != "m-chanel" {
			t.Fatalf("leaked a foreign product: %+v", p)
		}
	}

	rows, _, err = r.FindForMerchant("m-chanel", repos.ProductQuery{Status: "DRAFT"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p-mine-draft" {
		t.Fatalf("status filter on the merchant path, got %+v", rows)
	}
}

func TestDecrementStock(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)
	now := time.Now()

	seedProduct(t, db, "p-one", "m-chanel", "Single", "bags", 100, 0, "ACTIVE", false, now)
	if _, err := db.Exec(`UPDATE products SET stock = 2 WHERE id = 'p-one'`); err != nil {
		t.Fatal(err)
	}

	if err := r.DecrementStock("p-one", 2); err != nil {
		t.Fatal(err)
	}
	if err := r.DecrementStock("p-one", 1); err == nil {
		t.Fatal("decrement below zero must fail")
	}
}
