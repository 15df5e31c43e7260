package services_test

import (
	"testing"
	"time"

	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
)

func TestStockLevel(t *testing.T) {
	cases := []struct {
		stock, min int
		want       string
	}{
		{0, 2, "OUT_OF_STOCK"},
		{-1, 2, "OUT_OF_STOCK"},
		{2, 2, "LOW_STOCK"},
		{1, 2, "LOW_STOCK"},
		{3, 2, "IN_STOCK"},
		{500, 0, "IN_STOCK"},
	}
	for _, tc := range cases {
		if got := services.StockLevel(tc.stock, tc.min); got != tc.want {
			t.Errorf("StockLevel(%d,%d) = %s, want %s", tc.stock, tc.min, got, tc.want)
		}
	}
}

func TestUpdateStock_ClampsToBounds(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewMerchantService(repos.NewMerchantRepo(db), prodRepo, repos.NewOrderRepo(db))

	if _, err := db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES('p-1','m-chanel','Jacket','','jackets',120,0,'[]','ACTIVE',0,5,1,100,CURRENT_TIMESTAMP)
	`); err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateStock("p-1", "m-chanel", 150); err != nil {
		t.Fatal(err)
	}
	p, err := prodRepo.Get("p-1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 100 {
		t.Fatalf("stock must clamp to max_stock, got %d", p.Stock)
	}

	if err := svc.UpdateStock("p-1", "m-chanel", -5); err != nil {
		t.Fatal(err)
	}
	p, err = prodRepo.Get("p-1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 0 {
		t.Fatalf("negative input floors at zero, got %d", p.Stock)
	}

	// another store can't touch it
	if err := svc.UpdateStock("p-1", "m-dior", 10); err == nil {
		t.Fatal("cross-merchant stock update must fail")
	}
}
