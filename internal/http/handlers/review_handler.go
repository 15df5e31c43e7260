package handlers

import (
	"errors"

	"maisonmarket/internal/domain"
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	pid, okID := validate.ID(c.FormValue("productId"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	rating, okR := validate.Rating(c.FormValue("rating"))
	if !okR {
		return c.Status(400).SendString("rating must be between 1 and 5")
	}
	id, err := h.Reviews.Create(u.ID, pid, rating, c.FormValue("title"), c.FormValue("body"))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(409).SendString("You already reviewed this item; edit your review instead")
		}
		applog.Error(c, "review.create.fail", err, map[string]any{"product": pid})
		return failErr(c, err)
	}
	applog.Audit(c, "review.create", map[string]any{"review_id": id, "product": pid})
	return c.Redirect("/product/" + pid)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Review not found"})
	}
	rating, okR := validate.Rating(c.FormValue("rating"))
	if !okR {
		return c.Status(400).SendString("rating must be between 1 and 5")
	}
	if err := h.Reviews.Update(id, u.ID, rating, c.FormValue("title"), c.FormValue("body")); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "review.update", map[string]any{"review_id": id})
	back := c.Get("Referer")
	if back == "" {
		back = "/"
	}
	return c.Redirect(back)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Review not found"})
	}
	if err := h.Reviews.Delete(id, u.ID); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	back := c.Get("Referer")
	if back == "" {
		back = "/"
	}
	return c.Redirect(back)
}
