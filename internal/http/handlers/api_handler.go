package handlers

import (
	"time"

	"maisonmarket/internal/log"
	"maisonmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the JSON catalog endpoints. Same query layer as the
// pages, same permissive filter parsing, uniform envelope.
type APIHandler struct {
	Catalog *services.CatalogService
	Colls   *services.CollectionService
}

// GET /api/v1/products
func (h *APIHandler) Products(c *fiber.Ctx) error {
	q := services.ParseProductQuery(c.Query)
	page, err := h.Catalog.Search(q, time.Now())
	if err != nil {
		log.Error(c, "api.products", err, nil)
		return failErr(c, err)
	}
	return ok(c, page)
}

// GET /api/v1/collections
func (h *APIHandler) Collections(c *fiber.Ctx) error {
	q := services.ParseCollectionQuery(c.Query)
	page, err := h.Colls.List(q)
	if err != nil {
		log.Error(c, "api.collections", err, nil)
		return failErr(c, err)
	}
	return ok(c, page)
}
