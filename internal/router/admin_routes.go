package router

import (
	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/handler"
	"github.com/railgo/train-booking-api/internal/middleware"
	"github.com/railgo/train-booking-api/internal/model"
)

// RegisterAdmin registers the administrative endpoints: catalog and seat
// inventory management, user administration, ticket deletion and refunds.
func RegisterAdmin(e *echo.Echo, users *handler.UserHandler, trains *handler.TrainHandler,
	routes *handler.RouteHandler, schedules *handler.ScheduleHandler, seats *handler.SeatHandler,
	tickets *handler.TicketHandler, payments *handler.PaymentHandler,
	jwtSecret string, paymentsEnabled bool) {

	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/trains", trains.Create)
	g.PUT("/trains/:id", trains.Update)
	g.DELETE("/trains/:id", trains.Delete)

	g.POST("/routes", routes.Create)
	g.PUT("/routes/:id", routes.Update)
	g.DELETE("/routes/:id", routes.Delete)

	g.POST("/schedules", schedules.Create)
	g.PUT("/schedules/:id", schedules.Update)
	g.DELETE("/schedules/:id", schedules.Delete)

	g.POST("/seats", seats.Create)
	g.POST("/seats/bulk", seats.CreateBulk)
	g.PUT("/seats/:id", seats.Update)
	g.DELETE("/seats/:id", seats.Delete)

	g.GET("/users", users.List)

	g.DELETE("/tickets/:id", tickets.Delete)

	if paymentsEnabled {
		g.PUT("/payments/:id/refund", payments.Refund)
		g.DELETE("/payments/:id", payments.Delete)
	}
}
