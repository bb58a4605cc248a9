package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kiosk-service/internal/api/http/handlers"
	"github.com/spec-kit/kiosk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Guests         *handlers.GuestsHandler
	Nationalities  *handlers.NationalitiesHandler
	Menu           *handlers.MenuHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Kiosk-facing intake and read
// routes stay open; staff-side mutations and the export require a
// bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.Token)
	authGroup.Post("/admins", cfg.Auth.Register)
	authGroup.Get("/admins/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Get("/admins", cfg.AuthMiddleware.Handle, cfg.Auth.List)

	users := app.Group("/users")
	users.Post("/walk-in", cfg.Guests.CreateWalkIn)
	users.Post("/booked", cfg.Guests.CreateBooked)
	users.Get("/", cfg.Guests.List)
	// Registered before /:phone so "export" is never read as a phone.
	users.Get("/export", cfg.AuthMiddleware.Handle, cfg.Guests.Export)
	users.Get("/:phone", cfg.Guests.Get)
	users.Put("/:phone/status", cfg.AuthMiddleware.Handle, cfg.Guests.UpdateStatus)
	users.Delete("/:phone", cfg.AuthMiddleware.Handle, cfg.Guests.Delete)

	nationalities := app.Group("/nationalities")
	nationalities.Get("/", cfg.Nationalities.List)
	nationalities.Post("/", cfg.AuthMiddleware.Handle, cfg.Nationalities.Create)
	nationalities.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Nationalities.Update)
	nationalities.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Nationalities.Delete)

	menu := app.Group("/menu")
	menu.Get("/categories", cfg.Menu.List)
	menu.Post("/add", cfg.AuthMiddleware.Handle, cfg.Menu.Create)
}
