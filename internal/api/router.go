// Package api wires the HTTP surface: routing, the session pipeline, the
// role gates and the error presentation boundary.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/handler"
	"github.com/campuskit/catalog-system/internal/api/middleware"
	"github.com/campuskit/catalog-system/internal/api/session"
	"github.com/campuskit/catalog-system/internal/core/domain"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Items     *handler.ItemHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Prometheus carries the registry pair the HTTP metrics bind to. Production
// uses the process-default pair; tests hand in a private registry.
type Prometheus struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance. Every request passes through session
// resolution; role gates are applied per route group, so a guarded handler
// can rely on a principal being present.
func NewRouter(h Handlers, sessions *session.Manager, prom Prometheus, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: prom.Registerer,
	}))
	e.Use(middleware.Session(sessions))

	// probes and metrics, no auth
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prom.Gatherer,
	}))

	// authentication flows
	e.POST("/login", h.Auth.Login)
	e.POST("/register", h.Auth.Register)
	e.GET("/logout", h.Auth.Logout)
	e.POST("/logout", h.Auth.Logout)

	admin := e.Group("/admin",
		middleware.RequireAuthenticated(),
		middleware.RequireRole(domain.RoleAdmin),
	)
	admin.GET("", h.Dashboard.Admin)

	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.GET("/users/:id", h.Users.Get)
	admin.POST("/users/:id", h.Users.Update)
	admin.POST("/users/:id/delete", h.Users.Delete)

	admin.GET("/items", h.Items.List)
	admin.POST("/items", h.Items.Create)
	admin.GET("/items/:id", h.Items.Get)
	admin.POST("/items/:id", h.Items.Update)
	admin.POST("/items/:id/delete", h.Items.Delete)

	student := e.Group("/student",
		middleware.RequireAuthenticated(),
		middleware.RequireRole(domain.RoleStudent),
	)
	student.GET("", h.Dashboard.Student)
	student.GET("/items", h.Items.List)
	student.GET("/items/search", h.Items.Search)
	student.POST("/items", h.Items.Create)
	student.GET("/items/:id", h.Items.Get)
	student.POST("/items/:id", h.Items.Update)
	student.POST("/items/:id/delete", h.Items.Delete)

	return e
}
