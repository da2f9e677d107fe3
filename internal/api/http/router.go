package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comtooin/support-center/internal/api/http/handlers"
	"github.com/comtooin/support-center/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Requests        *handlers.RequestsHandler
	Admin           *handlers.AdminHandler
	Reports         *handlers.ReportsHandler
	Guides          *handlers.GuidesHandler
	AdminMiddleware *auth.AdminMiddleware

	// LocalUploadDir, when set, is served read-only under /uploads.
	LocalUploadDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	requests := api.Group("/requests")
	requests.Post("/", cfg.Requests.Create)
	requests.Post("/auth", cfg.Requests.Auth)
	requests.Get("/:id", cfg.Requests.Get)
	requests.Put("/:id", cfg.Requests.Update)
	requests.Delete("/:id", cfg.Requests.Delete)

	admin := api.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)

	protected := admin.Group("", cfg.AdminMiddleware.Handle)
	protected.Get("/requests", cfg.Admin.ListRequests)
	protected.Get("/customers", cfg.Admin.ListCustomers)
	protected.Put("/requests/:id", cfg.Admin.UpdateRequest)
	protected.Delete("/requests/:id", cfg.Admin.DeleteRequest)
	protected.Get("/reports/summary", cfg.Reports.Summary)
	protected.Get("/reports/excel", cfg.Reports.Excel)

	guide := api.Group("/guide")
	guide.Get("/", cfg.Guides.List)
	guide.Get("/:id", cfg.Guides.Get)
	guide.Post("/", cfg.AdminMiddleware.Handle, cfg.Guides.Create)
	guide.Put("/:id", cfg.AdminMiddleware.Handle, cfg.Guides.Update)
	guide.Delete("/:id", cfg.AdminMiddleware.Handle, cfg.Guides.Delete)

	if cfg.LocalUploadDir != "" {
		app.Static("/uploads", cfg.LocalUploadDir)
	}
}
