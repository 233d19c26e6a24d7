// Package router wires handlers and middleware onto the Echo instance.
// Public browse endpoints, authenticated user endpoints and admin
// endpoints are registered by separate functions to keep the groups and
// their middleware visible in one place each.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/handler"
	"github.com/railgo/train-booking-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication and
// do not belong to a resource group.  Currently that is the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and the refresh endpoints are open; logout, me and check require a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)

	auth := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	auth.POST("/logout", a.Logout)
	auth.GET("/me", a.Me)
	auth.GET("/check", a.Check)
}
