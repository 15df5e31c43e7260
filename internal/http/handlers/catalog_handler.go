package handlers

import (
	"time"

	"maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog     *services.CatalogService
	Collections *services.CollectionService
	Reviews     *services.ReviewService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured, err := h.Catalog.Featured(8, time.Now())
	if err != nil {
		log.Error(c, "home.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the storefront. Please retry."})
	}
	colls, err := h.Collections.List(services.ParseCollectionQuery(func(string, ...string) string { return "" }))
	if err != nil {
		log.Error(c, "home.collections", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the storefront. Please retry."})
	}
	return render(c, "home", fiber.Map{"Featured": featured, "Collections": colls.Collections})
}

// Search is the server-rendered storefront listing. The raw query string
// is parsed permissively; only the free-text term is screened.
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	if raw := c.Query("search"); raw != "" {
		if _, okQ := validate.Q(raw); !okQ {
			log.Security(c, "validation.fail", map[string]any{"field": "search", "value": raw})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
	}
	q := services.ParseProductQuery(c.Query)
	page, err := h.Catalog.Search(q, time.Now())
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return render(c, "search", fiber.Map{
		"Q": q.Search, "Page": page,
	})
}

func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	cat := c.Params("category")
	q := services.ParseProductQuery(c.Query)
	q.Category = cat
	page, err := h.Catalog.Search(q, time.Now())
	if err != nil {
		log.Error(c, "category.error", err, map[string]any{"category": cat})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return render(c, "category", fiber.Map{"Category": cat, "Page": page})
}

// ProductDetail hides anything not publicly visible, no matter how the id
// was obtained.
func (h *CatalogHandler) ProductDetail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id, time.Now())
	if err != nil || p.Status != "ACTIVE" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	reviews, avg, count, err := h.Reviews.ForProduct(id)
	if err != nil {
		log.Error(c, "product.reviews", err, map[string]any{"product": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load this item. Please retry."})
	}
	return render(c, "product", fiber.Map{
		"P": p, "Reviews": reviews, "RatingAvg": avg, "RatingCount": count,
	})
}

func (h *CatalogHandler) CollectionsPage(c *fiber.Ctx) error {
	page, err := h.Collections.List(services.ParseCollectionQuery(c.Query))
	if err != nil {
		log.Error(c, "collections.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load collections. Please retry."})
	}
	return render(c, "collections", fiber.Map{"Page": page})
}

func (h *CatalogHandler) CollectionDetail(c *fiber.Ctx) error {
	slug, okSlug := validate.Slug(c.Params("slug"))
	if !okSlug {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	detail, err := h.Collections.PublicBySlug(slug)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	return render(c, "collection", fiber.Map{"C": detail.Collection, "Products": detail.Products})
}

// MerchantPage is the public store page: the merchant's active products
// via the same query builder, brand filter pinned.
func (h *CatalogHandler) MerchantPage(c *fiber.Ctx) error {
	slug, okSlug := validate.Slug(c.Params("slug"))
	if !okSlug {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	m, err := h.Catalog.Merchants.GetBySlug(slug)
	if err != nil || m.Status != "ACTIVE" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	q := services.ParseProductQuery(c.Query)
	q.MerchantID = m.ID
	page, err := h.Catalog.Search(q, time.Now())
	if err != nil {
		log.Error(c, "merchant.page", err, map[string]any{"merchant": m.ID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load this store. Please retry."})
	}
	return render(c, "merchant", fiber.Map{"M": m, "Page": page})
}
