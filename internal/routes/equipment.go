package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/authz"
	"equipment-rental/internal/controllers"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/middleware"
)

func runEquipmentRouter(
	secureGroup *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	availabilityService services.AvailabilityServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	ctrl := controllers.NewEquipmentController(equipmentService, availabilityService, logger)
	g := secureGroup.Group("/equipment")

	g.GET("", ctrl.GetEquipments)
	g.GET("/:id", ctrl.FindEquipment)
	g.POST("", ctrl.CreateEquipment, authMW.RequirePermission(authz.EquipmentCreate))
	g.PUT("/:id", ctrl.UpdateEquipment, authMW.RequirePermission(authz.EquipmentUpdate))
	g.DELETE("/:id", ctrl.DeleteEquipment, authMW.RequirePermission(authz.EquipmentDelete))
	g.GET("/:id/status", ctrl.GetStatusHistory)
	g.POST("/:id/status", ctrl.OverrideStatus, authMW.RequirePermission(authz.EquipmentStatus))
	g.GET("/:id/availability", ctrl.GetAvailability)
}
