package handlers

import (
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart    *services.CartService
	Order   *services.OrderService
	Account *services.AccountService
}

// Checkout shows the cart alongside the user's addresses and payment
// methods so the default ones can be pre-selected.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	addrs, err := h.Account.ListAddresses(u.ID)
	if err != nil {
		applog.Error(c, "checkout.addresses", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your addresses"})
	}
	pays, err := h.Account.ListPaymentMethods(u.ID)
	if err != nil {
		applog.Error(c, "checkout.payments", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your payment methods"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv, "Addresses": addrs, "PaymentMethods": pays})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	sid := ensureSID(c)

	addressID, okA := validate.ID(c.FormValue("addressId"))
	paymentID, okP := validate.ID(c.FormValue("paymentMethodId"))
	if !okA || !okP {
		applog.Security(c, "validation.fail", map[string]any{"field": "addressId/paymentMethodId"})
		return c.Status(400).SendString("select an address and a payment method")
	}

	orderID, err := h.Order.Place(u.ID, sid, addressID, paymentID)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"user": u.ID, "error": err.Error()})
		return c.Status(400).SendString("Could not place order. Please review your cart and try again.")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID})
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, items, err := h.Order.GetForUser(oid, u.ID)
	if err != nil {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
