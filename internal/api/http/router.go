package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoich-web/internal/api/http/handlers"
	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Metrics   *handlers.MetricsHandler
	Home      *handlers.HomeHandler
	OTP       *handlers.OTPHandler
	Password  *handlers.PasswordHandler
	Customers *handlers.CustomersHandler
	Session   *handlers.SessionHandler
	Sessions  *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Use(cfg.Sessions.Load)

	app.Get(domain.RouteLogin, cfg.Home.Home)
	app.Post("/logout", cfg.Session.Logout)

	api := app.Group("/api")
	api.Post("/session", cfg.Session.Create)
	api.Get("/session", cfg.Session.Current)
	api.Delete("/session", cfg.Session.Delete)
	api.Get("/customers", auth.RequireSession(""), cfg.Customers.ListJSON)

	app.Get(domain.RouteVerifyOTP, cfg.Sessions.Ensure, cfg.OTP.Show)
	app.Post(domain.RouteVerifyOTP, cfg.Sessions.Ensure, cfg.OTP.Verify)
	app.Get(domain.RouteResetPassword, cfg.Sessions.Ensure, cfg.Password.Show)
	app.Post(domain.RouteResetPassword, cfg.Sessions.Ensure, cfg.Password.Reset)

	customers := app.Group(domain.RouteCustomerList, auth.RequireSession(domain.RouteLogin))
	customers.Get("", cfg.Customers.List)
	customers.Post("/upload", cfg.Customers.Upload)
	customers.Post("/refresh", cfg.Customers.Refresh)
	customers.Get("/view/:id", cfg.Customers.View)
	customers.Get("/:id/delete", cfg.Customers.ConfirmDelete)
	customers.Post("/:id/delete", cfg.Customers.Delete)
}
