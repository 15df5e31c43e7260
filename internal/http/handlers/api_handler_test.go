package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"maisonmarket/internal/http/handlers"
	"maisonmarket/internal/repos"
)

func apiApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	deps := handlers.NewDeps(db)

	app := fiber.New()
	app.Get("/api/v1/products", deps.APIHandler.Products)
	app.Get("/api/v1/collections", deps.APIHandler.Collections)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func TestAPIProducts_Envelope(t *testing.T) {
	app := apiApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products?category=jackets", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if !env.Success || env.Data == nil || env.Error != nil {
		t.Fatalf("success replies carry data and no error: %+v", env)
	}

	var page struct {
		Products []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"products"`
		Pagination repos.Pagination `json:"pagination"`
		Facets     json.RawMessage  `json:"facets"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Page != 1 || page.Pagination.PageSize != repos.DefaultPageSize {
		t.Fatalf("default paging expected: %+v", page.Pagination)
	}
	for _, p := range page.Products {
		if p.Status != "ACTIVE" {
			t.Fatalf("public API must never expose non-active products: %+v", p)
		}
	}
	if page.Facets == nil {
		t.Fatal("facets must always be present")
	}
}

// Junk filter values never 4xx a read: the constraint is dropped and the
// request still succeeds.
func TestAPIProducts_JunkFiltersTolerated(t *testing.T) {
	app := apiApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products?minPrice=banana&page=-2&pageSize=zzz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("permissive reads: want 200, got %d", resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if !env.Success {
		t.Fatalf("want success envelope, got %+v", env)
	}
}

func TestAPICollections_Envelope(t *testing.T) {
	app := apiApp(t)

	req := httptest.NewRequest("GET", "/api/v1/collections", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if !env.Success {
		t.Fatalf("want success envelope, got %+v", env)
	}
}
