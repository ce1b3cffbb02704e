package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/controllers"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/middleware"
	"equipment-rental/pkg/service"
	"equipment-rental/pkg/websocket"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Equipment    services.EquipmentServiceInterface
	Availability services.AvailabilityServiceInterface
	Events       services.EventServiceInterface
	Reservations services.ReservationServiceInterface
	Maintenance  services.MaintenanceServiceInterface
	Reports      services.ReportServiceInterface
}

func InitRouter(e *echo.Echo, svc Services, jwtSvc service.JWTService, hub *websocket.Hub, logger *zap.Logger) {
	logger.Info("InitRouter: registering routes")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	secureGroup := api.Group("", authMW.Auth)

	runEquipmentRouter(secureGroup, svc.Equipment, svc.Availability, logger, authMW)
	runEventRouter(secureGroup, svc.Events, logger, authMW)
	runReservationRouter(secureGroup, svc.Reservations, logger)
	runMaintenanceRouter(secureGroup, svc.Maintenance, logger, authMW)

	reports := controllers.NewReportController(svc.Reports, logger)
	secureGroup.GET("/reports/inventory.xlsx", reports.GetInventory)

	if hub != nil {
		wsController := controllers.NewWebSocketController(hub, jwtSvc, logger)
		e.GET("/ws/availability", wsController.ServeWs)
	}

	logger.Info("InitRouter: routes registered")
}
