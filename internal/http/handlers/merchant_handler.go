package handlers

import (
	"strconv"
	"time"

	applog "maisonmarket/internal/log"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// MerchantHandler is the operator console: dashboard, inventory, product
// lifecycle, stock and store settings. The merchant id always comes from
// the session (pinned by RequireMerchant), never from the form.
type MerchantHandler struct {
	Merchant *services.MerchantService
}

// merchantID resolves the acting merchant. Admins browsing the console
// pass ?merchantId= explicitly; operators are pinned to their own store.
func merchantID(c *fiber.Ctx) string {
	if mid, _ := c.Locals("merchant_id").(string); mid != "" {
		return mid
	}
	if mid, ok := validate.ID(c.Query("merchantId")); ok {
		return mid
	}
	return ""
}

func (h *MerchantHandler) Dashboard(c *fiber.Ctx) error {
	mid := merchantID(c)
	if mid == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	d, err := h.Merchant.Dashboard(mid, time.Now())
	if err != nil {
		applog.Error(c, "merchant.dashboard.fail", err, map[string]any{"merchant": mid})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	return render(c, "merchant_dashboard", fiber.Map{"Dashboard": d})
}

// Inventory is the merchant-side listing: same filters and pagination as
// the storefront, plus a status filter and stock levels per row.
func (h *MerchantHandler) Inventory(c *fiber.Ctx) error {
	mid := merchantID(c)
	if mid == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	q := services.ParseProductQuery(c.Query)
	q.Status = c.Query("status")
	rows, pg, err := h.Merchant.Inventory(mid, q, time.Now())
	if err != nil {
		applog.Error(c, "merchant.inventory.fail", err, map[string]any{"merchant": mid})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	type invRow struct {
		repos.ProductRow
		Level string
	}
	out := make([]invRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, invRow{ProductRow: r, Level: services.StockLevel(r.Stock, r.MinStock)})
	}
	return render(c, "merchant_inventory", fiber.Map{"Rows": out, "Pagination": pg})
}

func productForm(c *fiber.Ctx) (services.ProductInput, bool) {
	price, okP := validate.Money(c.FormValue("price"))
	in := services.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Price:       price,
	}
	if v, ok := validate.Money(c.FormValue("originalPrice")); ok {
		in.OriginalPrice = v
	}
	if n, err := strconv.Atoi(c.FormValue("minStock")); err == nil && n >= 0 {
		in.MinStock = n
	}
	in.MaxStock = 100
	if n, err := strconv.Atoi(c.FormValue("maxStock")); err == nil && n >= 1 {
		in.MaxStock = n
	}
	return in, okP
}

func (h *MerchantHandler) CreateProduct(c *fiber.Ctx) error {
	mid := merchantID(c)
	in, okP := productForm(c)
	if mid == "" || !okP {
		return c.Status(400).SendString("enter a valid price")
	}
	id, fields, err := h.Merchant.CreateProduct(mid, in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("merchant_product_form", fiber.Map{"Errs": fields, "Form": in})
		}
		applog.Error(c, "merchant.product.create.fail", err, nil)
		return c.Status(500).SendString("Could not create product")
	}
	applog.Audit(c, "merchant.product.create", map[string]any{"product": id})
	return c.Redirect("/merchant/inventory")
}

func (h *MerchantHandler) UpdateProduct(c *fiber.Ctx) error {
	mid := merchantID(c)
	pid, okID := validate.ID(c.Params("id"))
	if mid == "" || !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	u := repos.ProductUpdate{}
	if v := c.FormValue("name"); v != "" {
		u.Name = &v
	}
	if v := c.FormValue("description"); v != "" {
		u.Description = &v
	}
	if v := c.FormValue("category"); v != "" {
		u.Category = &v
	}
	if v, ok := validate.Money(c.FormValue("price")); ok {
		u.Price = &v
	}
	if v, ok := validate.Money(c.FormValue("originalPrice")); ok {
		u.OriginalPrice = &v
	}
	if err := h.Merchant.UpdateProduct(pid, mid, u); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "merchant.product.update", map[string]any{"product": pid})
	return c.Redirect("/merchant/inventory")
}

func (h *MerchantHandler) Publish(c *fiber.Ctx) error {
	return h.lifecycle(c, "publish", h.Merchant.Publish)
}

func (h *MerchantHandler) Archive(c *fiber.Ctx) error {
	return h.lifecycle(c, "archive", h.Merchant.Archive)
}

func (h *MerchantHandler) Restore(c *fiber.Ctx) error {
	return h.lifecycle(c, "restore", h.Merchant.Restore)
}

func (h *MerchantHandler) lifecycle(c *fiber.Ctx, action string, fn func(id, merchantID string) error) error {
	mid := merchantID(c)
	pid, okID := validate.ID(c.Params("id"))
	if mid == "" || !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	if err := fn(pid, mid); err != nil {
		applog.Error(c, "merchant.product."+action+".fail", err, map[string]any{"product": pid})
		return failErr(c, err)
	}
	applog.Audit(c, "merchant.product."+action, map[string]any{"product": pid})
	return c.Redirect("/merchant/inventory")
}

func (h *MerchantHandler) UpdateStock(c *fiber.Ctx) error {
	mid := merchantID(c)
	pid, okID := validate.ID(c.Params("id"))
	if mid == "" || !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	stock, err := strconv.Atoi(c.FormValue("stock"))
	if err != nil || stock < 0 {
		return c.Status(400).SendString("enter a valid stock count")
	}
	if err := h.Merchant.UpdateStock(pid, mid, stock); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "merchant.stock.update", map[string]any{"product": pid, "stock": stock})
	return c.Redirect("/merchant/inventory")
}

func (h *MerchantHandler) Settings(c *fiber.Ctx) error {
	mid := merchantID(c)
	if mid == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	m, err := h.Merchant.Merchants.Get(mid)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	return render(c, "merchant_settings", fiber.Map{"M": m})
}

func (h *MerchantHandler) UpdateSettings(c *fiber.Ctx) error {
	mid := merchantID(c)
	if mid == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	in := services.SettingsInput{
		Name:         c.FormValue("name"),
		Category:     c.FormValue("category"),
		ContactEmail: c.FormValue("contactEmail"),
		Phone:        c.FormValue("phone"),
		Street:       c.FormValue("street"),
		City:         c.FormValue("city"),
		Country:      c.FormValue("country"),
		Description:  c.FormValue("description"),
		Currency:     c.FormValue("currency"),
		SupportEmail: c.FormValue("supportEmail"),
		ShippingNote: c.FormValue("shippingNote"),
	}
	fields, err := h.Merchant.UpdateSettings(mid, in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("merchant_settings", fiber.Map{"Errs": fields, "Form": in})
		}
		applog.Error(c, "merchant.settings.fail", err, nil)
		return failErr(c, err)
	}
	applog.Audit(c, "merchant.settings.update", map[string]any{"merchant": mid})
	return c.Redirect("/merchant/settings")
}
