package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Signup    *handlers.SignupHandler
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Analytics *handlers.AnalyticsHandler
	Upload    *handlers.UploadHandler
	Sessions  *handlers.SessionManager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Signup.Register)
	authGroup.Post("/verify-email", cfg.Signup.Verify)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Sessions.RequireAuth(), cfg.Auth.Logout)

	protected := api.Group("", cfg.Sessions.RequireAuth())
	protected.Get("/profile", cfg.Profile.Get)
	protected.Put("/profile", cfg.Profile.Update)
	protected.Get("/analytics/dashboard", cfg.Analytics.Dashboard)

	api.Options("/upload-image", cfg.Upload.Preflight)
	api.Post("/upload-image", cfg.Sessions.RequireAuth(), cfg.Upload.Upload)
}
