package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/authz"
	"equipment-rental/internal/controllers"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/middleware"
)

func runMaintenanceRouter(
	secureGroup *echo.Group,
	maintenanceService services.MaintenanceServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	ctrl := controllers.NewMaintenanceController(maintenanceService, logger)
	g := secureGroup.Group("/maintenance")

	g.GET("", ctrl.GetMaintenances)
	g.GET("/:id", ctrl.FindMaintenance)
	g.POST("", ctrl.CreateMaintenance, authMW.RequirePermission(authz.MaintenanceCreate))
	g.PUT("/:id", ctrl.UpdateMaintenance, authMW.RequirePermission(authz.MaintenanceUpdate))
	g.POST("/:id/complete", ctrl.CompleteMaintenance, authMW.RequirePermission(authz.MaintenanceComplete))
	g.DELETE("/:id", ctrl.DeleteMaintenance, authMW.RequirePermission(authz.MaintenanceDelete))
	g.POST("/:id/logs", ctrl.AddLog, authMW.RequirePermission(authz.MaintenanceLog))
}
