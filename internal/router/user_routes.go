package router

import (
	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/handler"
	"github.com/railgo/train-booking-api/internal/middleware"
)

// RegisterUser registers endpoints for authenticated users: booking and
// managing their own tickets, reading and updating their own profile and,
// when payments are enabled, paying for tickets.  Ownership checks beyond
// the token live in the handlers.
func RegisterUser(e *echo.Echo, users *handler.UserHandler, tickets *handler.TicketHandler,
	payments *handler.PaymentHandler, jwtSecret string, paymentsEnabled bool) {

	g := e.Group("/api", middleware.JWTAuth(jwtSecret))

	g.POST("/tickets", tickets.Book)
	g.GET("/tickets", tickets.List)
	g.GET("/tickets/:id", tickets.Get)
	g.PUT("/tickets/:id/cancel", tickets.Cancel)

	g.GET("/users/:id", users.Get)
	g.PUT("/users/:id", users.Update)
	g.DELETE("/users/:id", users.Delete)

	// Payments ship disabled; the group only exists when the flag is on.
	if paymentsEnabled {
		g.POST("/payments", payments.Create)
		g.GET("/payments", payments.List)
		g.GET("/payments/:id", payments.Get)
		g.GET("/payments/transaction/:txn", payments.GetByTransaction)
	}
}
