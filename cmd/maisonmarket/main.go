package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"maisonmarket/internal/config"
	"maisonmarket/internal/http/handlers"
	applog "maisonmarket/internal/log"
	"maisonmarket/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db)
	authSvc := deps.Auth

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("user_id", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			formTok := c.FormValue("csrf")
			applog.Security(c, "csrf.fail", map[string]any{"form": formTok})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- Public storefront ----------
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.CatalogHandler.Search)
	app.Get("/category/:category", deps.CatalogHandler.Category)
	app.Get("/collections", deps.CatalogHandler.CollectionsPage)
	app.Get("/collections/:slug", deps.CatalogHandler.CollectionDetail)
	app.Get("/store/:slug", deps.CatalogHandler.MerchantPage)

	app.Get("/product", func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	})
	app.Get("/product/:id", deps.CatalogHandler.ProductDetail)

	// ---------- JSON API ----------
	api := app.Group("/api/v1")
	api.Get("/products", deps.APIHandler.Products)
	api.Get("/collections", deps.APIHandler.Collections)

	// ---------- Cart, wishlist, checkout ----------
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/delete", deps.CartHandler.Remove)

	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Save)
	app.Post("/wishlist/delete", deps.WishlistHandler.Unsave)

	app.Get("/checkout", handlers.RequireUser(authSvc), deps.OrderHandler.Checkout)
	app.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Place)
	app.Get("/order/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)

	// ---------- Reviews ----------
	app.Post("/reviews", handlers.RequireUser(authSvc), deps.ReviewHandler.Create)
	app.Post("/reviews/:id", handlers.RequireUser(authSvc), deps.ReviewHandler.Update)
	app.Post("/reviews/:id/delete", handlers.RequireUser(authSvc), deps.ReviewHandler.Delete)

	// ---------- Auth (login throttled) ----------
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- Account ----------
	account := app.Group("/account", handlers.RequireUser(authSvc))
	account.Get("/addresses", deps.AccountHandler.Addresses)
	account.Post("/addresses", deps.AccountHandler.CreateAddress)
	account.Post("/addresses/:id", deps.AccountHandler.UpdateAddress)
	account.Post("/addresses/:id/default", deps.AccountHandler.SetDefaultAddress)
	account.Post("/addresses/:id/delete", deps.AccountHandler.DeleteAddress)
	account.Get("/payment-methods", deps.AccountHandler.PaymentMethods)
	account.Post("/payment-methods", deps.AccountHandler.CreatePaymentMethod)
	account.Post("/payment-methods/:id/default", deps.AccountHandler.SetDefaultPaymentMethod)
	account.Post("/payment-methods/:id/delete", deps.AccountHandler.DeletePaymentMethod)
	account.Get("/notifications", deps.NotificationHandler.List)
	account.Post("/notifications/read-all", deps.NotificationHandler.MarkAllRead)
	account.Post("/notifications/:id/read", deps.NotificationHandler.MarkRead)
	account.Post("/notifications/:id/archive", deps.NotificationHandler.Archive)

	// ---------- Merchant console ----------
	merchant := app.Group("/merchant", handlers.RequireMerchant(authSvc))
	merchant.Get("/", deps.MerchantHandler.Dashboard)
	merchant.Get("/inventory", deps.MerchantHandler.Inventory)
	merchant.Post("/products", deps.MerchantHandler.CreateProduct)
	merchant.Post("/products/:id", deps.MerchantHandler.UpdateProduct)
	merchant.Post("/products/:id/publish", deps.MerchantHandler.Publish)
	merchant.Post("/products/:id/archive", deps.MerchantHandler.Archive)
	merchant.Post("/products/:id/restore", deps.MerchantHandler.Restore)
	merchant.Post("/products/:id/stock", deps.MerchantHandler.UpdateStock)
	merchant.Get("/settings", deps.MerchantHandler.Settings)
	merchant.Post("/settings", deps.MerchantHandler.UpdateSettings)

	// ---------- Admin back office ----------
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrderList)
	admin.Get("/orders/:id", deps.AdminHandler.OrderDetail)
	admin.Post("/orders/:id/status", deps.AdminHandler.OrderTransition)
	admin.Get("/collections", deps.AdminHandler.CollectionList)
	admin.Post("/collections", deps.AdminHandler.CollectionCreate)
	admin.Post("/collections/:id", deps.AdminHandler.CollectionUpdate)
	admin.Post("/collections/:id/status", deps.AdminHandler.CollectionStatus)
	admin.Post("/collections/:id/attach", deps.AdminHandler.CollectionAttach)
	admin.Post("/collections/:id/detach", deps.AdminHandler.CollectionDetach)
	admin.Get("/merchants", deps.AdminHandler.MerchantList)
	admin.Post("/merchants/:id/verify", deps.AdminHandler.MerchantVerify)
	admin.Post("/merchants/:id/status", deps.AdminHandler.MerchantStatus)
	admin.Get("/users", deps.AdminHandler.UserList)
	admin.Post("/users/:id/delete", deps.AdminHandler.UserDelete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
