package handlers

import (
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/services"
	"maisonmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Notifs *services.NotificationService
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	includeArchived := c.Query("archived") == "true"
	items, err := h.Notifs.List(u.ID, includeArchived)
	if err != nil {
		applog.Error(c, "notifications.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load notifications"})
	}
	unread, err := h.Notifs.UnreadCount(u.ID)
	if err != nil {
		applog.Error(c, "notifications.count.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load notifications"})
	}
	return render(c, "notifications", fiber.Map{"Notifications": items, "Unread": unread})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Notification not found"})
	}
	if err := h.Notifs.MarkRead(id, u.ID); err != nil {
		return failErr(c, err)
	}
	return c.Redirect("/account/notifications")
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Notifs.MarkAllRead(u.ID); err != nil {
		return failErr(c, err)
	}
	return c.Redirect("/account/notifications")
}

func (h *NotificationHandler) Archive(c *fiber.Ctx) error {
	u := currentUser(c)
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Notification not found"})
	}
	if err := h.Notifs.Archive(id, u.ID); err != nil {
		return failErr(c, err)
	}
	return c.Redirect("/account/notifications")
}
