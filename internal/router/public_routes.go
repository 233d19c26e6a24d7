package router

import (
	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the
// train, route and schedule catalogs, seat availability and the PNR
// status lookup.  The cache middleware is applied to this group only;
// authenticated responses are never cached.
func RegisterPublic(e *echo.Echo, trains *handler.TrainHandler, routes *handler.RouteHandler,
	schedules *handler.ScheduleHandler, seats *handler.SeatHandler, tickets *handler.TicketHandler,
	cache echo.MiddlewareFunc) {

	g := e.Group("/api", cache)

	g.GET("/trains", trains.List)
	g.GET("/trains/search", trains.Search)
	g.GET("/trains/:id", trains.Get)

	g.GET("/routes", routes.List)
	g.GET("/routes/:id", routes.Get)

	g.GET("/schedules", schedules.List)
	g.GET("/schedules/search", schedules.Search)
	g.GET("/schedules/:id", schedules.Get)

	g.GET("/seats", seats.Availability)

	g.GET("/tickets/pnr/:pnr", tickets.GetByPNR)
}
