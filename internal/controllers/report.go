package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/services"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetInventory streams the inventory workbook.
func (c *ReportController) GetInventory(ctx echo.Context) error {
	fileName := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("2006-01-02"))

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := c.reportService.WriteInventory(ctx.Request().Context(), res); err != nil {
		if res.Committed {
			c.logger.Error("inventory export interrupted", zap.Error(err))
			return nil
		}
		res.Header().Del(echo.HeaderContentDisposition)
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "failed to build inventory", err, nil),
			c.logger)
	}
	return nil
}
