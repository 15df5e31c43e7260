package services_test

import (
	"errors"
	"testing"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
)

func TestCollection_PublicVisibility(t *testing.T) {
	db := memdb(t)
	svc := services.NewCollectionService(repos.NewCollectionRepo(db))

	id, fields, err := svc.Create(services.CollectionInput{
		Name: "Fall Winter 2026", Slug: "fw26", Season: "FALL", Year: 2026,
	})
	if err != nil {
		t.Fatalf("create failed: %v (%v)", err, fields)
	}

	// drafts never resolve on the public path
	if _, err := svc.PublicBySlug("fw26"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("draft collection must read as not found, got %v", err)
	}

	if err := svc.SetStatus(id, "ACTIVE"); err != nil {
		t.Fatal(err)
	}
	detail, err := svc.PublicBySlug("fw26")
	if err != nil {
		t.Fatal(err)
	}
	if detail.Collection.ID != id {
		t.Fatalf("wrong collection: %+v", detail.Collection)
	}
}

func TestCollection_ProductsGateOnActive(t *testing.T) {
	db := memdb(t)
	svc := services.NewCollectionService(repos.NewCollectionRepo(db))

	for _, row := range []struct{ id, status string }{
		{"p-live", "ACTIVE"},
		{"p-draft", "DRAFT"},
	} {
		if _, err := db.Exec(`
		  INSERT INTO products(id, merchant_id, name, description, category, price,
		    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
		  VALUES(?,'m-chanel',?,'','bags',100,0,'[]',?,0,5,1,100,CURRENT_TIMESTAMP)
		`, row.id, row.id, row.status); err != nil {
			t.Fatal(err)
		}
	}

	id, _, err := svc.Create(services.CollectionInput{
		Name: "Resort", Slug: "resort-26", Season: "RESORT", Year: 2026,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetStatus(id, "ACTIVE"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Attach(id, "p-live", 1, true, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Attach(id, "p-draft", 2, false, ""); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.PublicBySlug("resort-26")
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Products) != 1 || detail.Products[0].ProductID != "p-live" {
		t.Fatalf("only active products may surface on a collection page, got %+v", detail.Products)
	}
}

func TestCollection_StrictWriteValidation(t *testing.T) {
	db := memdb(t)
	svc := services.NewCollectionService(repos.NewCollectionRepo(db))

	_, fields, err := svc.Create(services.CollectionInput{
		Name: "Bad", Slug: "bad", Season: "MONSOON", Year: 1850,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if fields["season"] == "" || fields["year"] == "" {
		t.Fatalf("want field errors for season and year, got %v", fields)
	}

	if err := svc.SetStatus("whatever", "LIVE"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}
