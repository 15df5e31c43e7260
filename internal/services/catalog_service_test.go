package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
)

func qs(m map[string]string) func(string, ...string) string {
	return func(k string, _ ...string) string { return m[k] }
}

// Filter parsing is permissive on purpose: junk numerics drop the
// constraint instead of failing the whole search.
func TestParseProductQuery_JunkDropsConstraint(t *testing.T) {
	q := services.ParseProductQuery(qs(map[string]string{
		"search":   "tweed",
		"minPrice": "cheap",
		"maxPrice": "-10",
		"onSale":   "banana",
		"page":     "two",
		"pageSize": "0",
	}))
	assert.Equal(t, "tweed", q.Search)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.False(t, q.OnSale)
	assert.Zero(t, q.Page)
	assert.Zero(t, q.PageSize)
}

func TestParseProductQuery_ValidValues(t *testing.T) {
	q := services.ParseProductQuery(qs(map[string]string{
		"category": "bags",
		"brandId":  "m-chanel",
		"minPrice": "99.99",
		"maxPrice": "500",
		"onSale":   "true",
		"isNew":    "1",
		"sortBy":   "price",
		"page":     "3",
		"pageSize": "24",
	}))
	assert.Equal(t, "bags", q.Category)
	assert.Equal(t, "m-chanel", q.MerchantID)
	if assert.NotNil(t, q.MinPrice) {
		assert.Equal(t, 99.99, *q.MinPrice)
	}
	if assert.NotNil(t, q.MaxPrice) {
		assert.Equal(t, 500.0, *q.MaxPrice)
	}
	assert.True(t, q.OnSale)
	assert.True(t, q.IsNew)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 24, q.PageSize)
}

// End to end through the service: a junk query string behaves like no
// filters at all, and paging still clamps.
func TestSearch_JunkQueryStillReturnsResults(t *testing.T) {
	db := memdb(t)
	if _, err := db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES('p-1','m-chanel','Tweed Jacket','','jackets',120,0,'[]','ACTIVE',0,5,1,100,CURRENT_TIMESTAMP)
	`); err != nil {
		t.Fatal(err)
	}

	svc := services.NewCatalogService(repos.NewProductRepo(db), repos.NewMerchantRepo(db))
	q := services.ParseProductQuery(qs(map[string]string{
		"minPrice": "notanumber", "page": "-7", "pageSize": "99999",
	}))
	page, err := svc.Search(q, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, repos.MaxPageSize, page.Pagination.PageSize)
}
