package handlers

import (
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler is the customer profile area: addresses and payment
// methods. Forms re-render with field errors on validation failure.
type AccountHandler struct {
	Account *services.AccountService
}

func (h *AccountHandler) Addresses(c *fiber.Ctx) error {
	u := currentUser(c)
	addrs, err := h.Account.ListAddresses(u.ID)
	if err != nil {
		applog.Error(c, "addresses.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load addresses"})
	}
	return render(c, "addresses", fiber.Map{"Addresses": addrs})
}

func addressForm(c *fiber.Ctx) services.AddressInput {
	return services.AddressInput{
		Label:      c.FormValue("label"),
		Recipient:  c.FormValue("recipient"),
		Street:     c.FormValue("street"),
		City:       c.FormValue("city"),
		Region:     c.FormValue("region"),
		PostalCode: c.FormValue("postalCode"),
		Country:    c.FormValue("country"),
		Phone:      c.FormValue("phone"),
		IsDefault:  c.FormValue("isDefault") == "on" || c.FormValue("isDefault") == "true",
	}
}

func (h *AccountHandler) CreateAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	in := addressForm(c)
	if _, ok := validate.PostalCode(in.PostalCode); !ok {
		return c.Status(400).Render("addresses", fiber.Map{
			"Errs": map[string]string{"postalcode": "enter a valid postal code"}, "Form": in,
		})
	}
	id, fields, err := h.Account.CreateAddress(u.ID, in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("addresses", fiber.Map{"Errs": fields, "Form": in})
		}
		applog.Error(c, "address.create.fail", err, nil)
		return c.Status(500).SendString("Could not save address")
	}
	applog.Audit(c, "address.create", map[string]any{"address_id": id})
	return c.Redirect("/account/addresses")
}

func (h *AccountHandler) UpdateAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Address not found"})
	}
	in := addressForm(c)
	fields, err := h.Account.UpdateAddress(id, u.ID, in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("addresses", fiber.Map{"Errs": fields, "Form": in})
		}
		return failErr(c, err)
	}
	applog.Audit(c, "address.update", map[string]any{"address_id": id})
	return c.Redirect("/account/addresses")
}

func (h *AccountHandler) SetDefaultAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Address not found"})
	}
	if err := h.Account.SetDefaultAddress(id, u.ID); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "address.default", map[string]any{"address_id": id})
	return c.Redirect("/account/addresses")
}

func (h *AccountHandler) DeleteAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Address not found"})
	}
	if err := h.Account.DeleteAddress(id, u.ID); err != nil {
		applog.Security(c, "address.delete.fail", map[string]any{"address_id": id, "error": err.Error()})
		return failErr(c, err)
	}
	applog.Audit(c, "address.delete", map[string]any{"address_id": id})
	return c.Redirect("/account/addresses")
}

func (h *AccountHandler) PaymentMethods(c *fiber.Ctx) error {
	u := currentUser(c)
	pays, err := h.Account.ListPaymentMethods(u.ID)
	if err != nil {
		applog.Error(c, "payments.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load payment methods"})
	}
	return render(c, "payment_methods", fiber.Map{"PaymentMethods": pays})
}

func (h *AccountHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	u := currentUser(c)
	in := services.PaymentMethodInput{
		Kind:      c.FormValue("kind"),
		Brand:     c.FormValue("brand"),
		Last4:     c.FormValue("last4"),
		Expiry:    c.FormValue("expiry"),
		Holder:    c.FormValue("holder"),
		IsDefault: c.FormValue("isDefault") == "on" || c.FormValue("isDefault") == "true",
	}
	id, fields, err := h.Account.CreatePaymentMethod(u.ID, in)
	if err != nil {
		if fields != nil {
			return c.Status(400).Render("payment_methods", fiber.Map{"Errs": fields, "Form": in})
		}
		applog.Error(c, "payment.create.fail", err, nil)
		return c.Status(500).SendString("Could not save payment method")
	}
	applog.Audit(c, "payment.create", map[string]any{"payment_id": id})
	return c.Redirect("/account/payment-methods")
}

func (h *AccountHandler) SetDefaultPaymentMethod(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Payment method not found"})
	}
	if err := h.Account.SetDefaultPaymentMethod(id, u.ID); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "payment.default", map[string]any{"payment_id": id})
	return c.Redirect("/account/payment-methods")
}

func (h *AccountHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Payment method not found"})
	}
	if err := h.Account.DeletePaymentMethod(id, u.ID); err != nil {
		applog.Security(c, "payment.delete.fail", map[string]any{"payment_id": id, "error": err.Error()})
		return failErr(c, err)
	}
	applog.Audit(c, "payment.delete", map[string]any{"payment_id": id})
	return c.Redirect("/account/payment-methods")
}
