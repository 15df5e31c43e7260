package services_test

import (
	"errors"
	"testing"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
)

func wishlistFixture(t *testing.T) (*services.WishlistService, *repos.ProductRepo, func(id, status string)) {
	t.Helper()
	db := memdb(t)
	seed := func(id, status string) {
		if _, err := db.Exec(`
		  INSERT INTO products(id, merchant_id, name, description, category, price,
		    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
		  VALUES(?,'m-chanel',?,'','bags',250,0,'[]',?,0,5,1,100,CURRENT_TIMESTAMP)
		`, id, id, status); err != nil {
			t.Fatal(err)
		}
	}
	prodRepo := repos.NewProductRepo(db)
	return services.NewWishlistService(repos.NewWishlistRepo(db), prodRepo), prodRepo, seed
}

func TestWishlist_SaveGatesOnPublicVisibility(t *testing.T) {
	svc, _, seed := wishlistFixture(t)
	seed("p-draft", "DRAFT")
	seed("p-live", "ACTIVE")

	sid := "test-session"
	if err := svc.Save(sid, "p-draft"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("saving a non-public product must read as not found, got %v", err)
	}
	if err := svc.Save(sid, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("saving an unknown product must read as not found, got %v", err)
	}
	if err := svc.Save(sid, "p-live"); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "p-live" || !items[0].Available {
		t.Fatalf("want one available saved item, got %+v", items)
	}
}

func TestWishlist_ArchivedItemsStayListedButUnavailable(t *testing.T) {
	svc, prodRepo, seed := wishlistFixture(t)
	seed("p-live", "ACTIVE")

	sid := "test-session"
	if err := svc.Save(sid, "p-live"); err != nil {
		t.Fatal(err)
	}
	if err := prodRepo.SetStatus("p-live", "m-chanel", domain.ProductArchived); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "p-live" {
		t.Fatalf("saved item must stay listed after archiving, got %+v", items)
	}
	if items[0].Available {
		t.Fatal("archived products must surface as unavailable")
	}

	if err := svc.Unsave(sid, "p-live"); err != nil {
		t.Fatal(err)
	}
	items, err = svc.List(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("want empty wishlist after unsave, got %+v", items)
	}
}
