package handlers

import (
	"strconv"

	"maisonmarket/internal/domain"
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the back office: order fulfilment, collection curation,
// merchant verification and user management.
type AdminHandler struct {
	Orders      *services.OrderService
	Collections *services.CollectionService
	OrderRepo   *repos.OrderRepo
	Users       *repos.UserRepo
	Merchants   *repos.MerchantRepo
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	orders, err := h.OrderRepo.ListLatest(10)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	merchants, err := h.Merchants.List()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{
		"RecentOrders":  orders,
		"MerchantCount": len(merchants),
		"UserCount":     len(users),
	})
}

// ---------- orders ----------

func (h *AdminHandler) OrderList(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	orders, err := h.OrderRepo.ListLatest(limit)
	if err != nil {
		applog.Error(c, "admin.orders.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": orders})
}

func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, items, err := h.OrderRepo.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "admin_order", fiber.Map{"Order": o, "Items": items})
}

// OrderTransition applies one step of the fulfilment graph; illegal moves
// come back as a conflict, not a silent overwrite.
func (h *AdminHandler) OrderTransition(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	to := c.FormValue("status")
	if err := h.Orders.Transition(id, to); err != nil {
		applog.Security(c, "admin.order.transition.fail", map[string]any{"order_id": id, "to": to})
		return failErr(c, err)
	}
	applog.Audit(c, "admin.order.transition", map[string]any{"order_id": id, "to": to})
	return c.Redirect("/admin/orders/" + id)
}

// ---------- collections ----------

func (h *AdminHandler) CollectionList(c *fiber.Ctx) error {
	page, err := h.Collections.ListAdmin(services.ParseCollectionQuery(c.Query))
	if err != nil {
		applog.Error(c, "admin.collections.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load collections"})
	}
	return render(c, "admin_collections", fiber.Map{"Page": page})
}

func collectionForm(c *fiber.Ctx) services.CollectionInput {
	year, _ := strconv.Atoi(c.FormValue("year"))
	order, _ := strconv.Atoi(c.FormValue("displayOrder"))
	in := services.CollectionInput{
		Name:         c.FormValue("name"),
		Slug:         c.FormValue("slug"),
		Season:       c.FormValue("season"),
		Year:         year,
		DisplayOrder: order,
		IsFeatured:   c.FormValue("isFeatured") == "on" || c.FormValue("isFeatured") == "true",
		Description:  c.FormValue("description"),
	}
	if v, ok := validate.Money(c.FormValue("minPrice")); ok {
		in.MinPrice = v
	}
	if v, ok := validate.Money(c.FormValue("maxPrice")); ok {
		in.MaxPrice = v
	}
	return in
}

func (h *AdminHandler) CollectionCreate(c *fiber.Ctx) error {
	in := collectionForm(c)
	if _, ok := validate.Slug(in.Slug); !ok {
		return c.Status(400).Render("admin_collections", fiber.Map{
			"Errs": map[string]string{"slug": "use lowercase letters, digits and dashes"}, "Form": in,
		})
	}
	id, fields, err := h.Collections.Create(in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("admin_collections", fiber.Map{"Errs": fields, "Form": in})
		}
		applog.Error(c, "admin.collection.create.fail", err, nil)
		return failErr(c, err)
	}
	applog.Audit(c, "admin.collection.create", map[string]any{"collection_id": id})
	return c.Redirect("/admin/collections")
}

func (h *AdminHandler) CollectionUpdate(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	u := repos.CollectionUpdate{}
	if v := c.FormValue("name"); v != "" {
		u.Name = &v
	}
	if v, ok := validate.Season(c.FormValue("season")); ok {
		u.Season = &v
	}
	if n, err := strconv.Atoi(c.FormValue("year")); err == nil && n >= 2000 {
		u.Year = &n
	}
	if n, err := strconv.Atoi(c.FormValue("displayOrder")); err == nil && n >= 0 {
		u.DisplayOrder = &n
	}
	if v := c.FormValue("isFeatured"); v != "" {
		b := v == "on" || v == "true"
		u.IsFeatured = &b
	}
	if v, ok := validate.Money(c.FormValue("minPrice")); ok {
		u.MinPrice = &v
	}
	if v, ok := validate.Money(c.FormValue("maxPrice")); ok {
		u.MaxPrice = &v
	}
	if v := c.FormValue("description"); v != "" {
		u.Description = &v
	}
	if err := h.Collections.Update(id, u); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.collection.update", map[string]any{"collection_id": id})
	return c.Redirect("/admin/collections")
}

func (h *AdminHandler) CollectionStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	status := c.FormValue("status")
	if err := h.Collections.SetStatus(id, status); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.collection.status", map[string]any{"collection_id": id, "status": status})
	return c.Redirect("/admin/collections")
}

func (h *AdminHandler) CollectionAttach(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	pid, okPID := validate.ID(c.FormValue("productId"))
	if !okID || !okPID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	order, _ := strconv.Atoi(c.FormValue("displayOrder"))
	highlight := c.FormValue("highlight") == "on" || c.FormValue("highlight") == "true"
	if err := h.Collections.Attach(id, pid, order, highlight, c.FormValue("customDesc")); err != nil {
		applog.Error(c, "admin.collection.attach.fail", err, map[string]any{"collection_id": id, "product": pid})
		return failErr(c, err)
	}
	applog.Audit(c, "admin.collection.attach", map[string]any{"collection_id": id, "product": pid})
	return c.Redirect("/admin/collections")
}

func (h *AdminHandler) CollectionDetach(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	pid, okPID := validate.ID(c.FormValue("productId"))
	if !okID || !okPID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Collection not found"})
	}
	if err := h.Collections.Detach(id, pid); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.collection.detach", map[string]any{"collection_id": id, "product": pid})
	return c.Redirect("/admin/collections")
}

// ---------- merchants ----------

func (h *AdminHandler) MerchantList(c *fiber.Ctx) error {
	merchants, err := h.Merchants.List()
	if err != nil {
		applog.Error(c, "admin.merchants.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load merchants"})
	}
	return render(c, "admin_merchants", fiber.Map{"Merchants": merchants})
}

func (h *AdminHandler) MerchantVerify(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Merchant not found"})
	}
	verified := c.FormValue("verified") != "false"
	if err := h.Merchants.SetVerified(id, verified); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.merchant.verify", map[string]any{"merchant": id, "verified": verified})
	return c.Redirect("/admin/merchants")
}

func (h *AdminHandler) MerchantStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Merchant not found"})
	}
	status := c.FormValue("status")
	switch status {
	case "ACTIVE", "SUSPENDED":
	default:
		return c.Status(400).SendString("status must be ACTIVE or SUSPENDED")
	}
	if err := h.Merchants.SetStatus(id, status); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.merchant.status", map[string]any{"merchant": id, "status": status})
	return c.Redirect("/admin/merchants")
}

// ---------- users ----------

func (h *AdminHandler) UserList(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// UserDelete cancels open orders and removes the account's personal data;
// admins cannot delete themselves or other admins.
func (h *AdminHandler) UserDelete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "User not found"})
	}
	target, err := h.Users.ByID(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "User not found"})
	}
	if target.Role == domain.RoleAdmin {
		applog.Security(c, "admin.user.delete.denied", map[string]any{"target": id})
		return c.Status(403).Render("notfound", fiber.Map{"Message": "Access denied"})
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.user.delete.fail", err, map[string]any{"target": id})
		return failErr(c, err)
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"target": id})
	return c.Redirect("/admin/users")
}
