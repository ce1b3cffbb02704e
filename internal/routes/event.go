package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/authz"
	"equipment-rental/internal/controllers"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/middleware"
)

func runEventRouter(
	secureGroup *echo.Group,
	eventService services.EventServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	ctrl := controllers.NewEventController(eventService, logger)
	g := secureGroup.Group("/events")

	g.GET("", ctrl.GetEvents)
	g.GET("/:id", ctrl.FindEvent)
	g.POST("", ctrl.CreateEvent)
	g.PUT("/:id", ctrl.UpdateEvent)
	g.DELETE("/:id", ctrl.DeleteEvent, authMW.RequirePermission(authz.EventsDelete))
}

// Reservations are open to every authenticated role.
func runReservationRouter(
	secureGroup *echo.Group,
	reservationService services.ReservationServiceInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewReservationController(reservationService, logger)
	g := secureGroup.Group("/events/:eventId/equipment")

	g.GET("", ctrl.ListReservations)
	g.POST("", ctrl.Reserve)
	g.PUT("/:reservationId", ctrl.UpdateReservation)
	g.POST("/:reservationId/return", ctrl.ReturnEquipment)
	g.DELETE("/:reservationId", ctrl.RemoveReservation)
}
