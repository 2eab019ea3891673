package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gopkg.in/natefinch/lumberjack.v2"

	"reliefmarket/internal/config"
	"reliefmarket/internal/domain"
	"reliefmarket/internal/http/handlers"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging with rotation
	if cfg.LogFile != "" {
		rot := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rot))
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal server error",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.MetricsMiddleware())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/healthz") || strings.HasPrefix(p, "/metrics")
		},
	}))

	// ---------- API ----------
	api := app.Group("/api/v1")

	// Auth (login/register throttled harder than the rest)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many attempts. Please try again later.",
			})
		},
	})
	api.Post("/auth/register", authLimiter, deps.AuthHandler.Register)
	api.Post("/auth/login", authLimiter, deps.AuthHandler.Login)

	// Catalog
	api.Get("/products", handlers.OptionalAuth(deps.Tokens), deps.ProductHandler.List)
	api.Post("/products",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleManufacturer, domain.RoleAdmin),
		deps.ProductHandler.Create)

	// Orders
	api.Get("/orders", handlers.RequireAuth(deps.Tokens), deps.OrderHandler.List)
	api.Post("/orders",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleVictim),
		deps.OrderHandler.Place)
	api.Patch("/orders/:id/status",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleAdmin),
		deps.OrderHandler.UpdateStatus)

	// Pickup locations (public read)
	api.Get("/pickup-locations", handlers.OptionalAuth(deps.Tokens), deps.LocationHandler.List)

	// Admin
	admin := api.Group("/admin",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleAdmin))
	admin.Get("/disaster-zones", deps.AdminHandler.ListZones)
	admin.Post("/disaster-zones", deps.AdminHandler.CreateZone)
	admin.Get("/pickup-locations", deps.AdminHandler.ListLocations)
	admin.Post("/pickup-locations", deps.AdminHandler.CreateLocation)
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Patch("/users", deps.AdminHandler.SetUserApproval)
	admin.Patch("/products", deps.AdminHandler.SetProductApproval)
	admin.Get("/stats", deps.AdminHandler.Dashboard)

	// Health & metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", handlers.MetricsHandler())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
