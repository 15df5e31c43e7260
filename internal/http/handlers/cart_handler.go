package handlers

import (
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, okID := validate.ID(c.FormValue("productId"))
	if !okID {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	color := c.FormValue("color")
	size := c.FormValue("size")

	if err := h.Cart.Add(sid, pid, color, size, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": pid})
		return c.Status(400).SendString("Could not add item to cart")
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, okID := validate.ID(c.FormValue("productId"))
	if !okID {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.SetQty(sid, pid, c.FormValue("color"), c.FormValue("size"), qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": pid})
		return c.Status(400).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, okID := validate.ID(c.FormValue("productId"))
	if !okID {
		return c.Status(400).SendString("missing productId")
	}
	if err := h.Cart.Remove(sid, pid, c.FormValue("color"), c.FormValue("size")); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": pid})
		return c.Status(400).SendString("Could not remove item")
	}
	return c.Redirect("/cart")
}
