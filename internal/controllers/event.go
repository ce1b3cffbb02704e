package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/services"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/utils"
)

type EventController struct {
	eventService services.EventServiceInterface
	logger       *zap.Logger
}

func NewEventController(eventService services.EventServiceInterface, logger *zap.Logger) *EventController {
	return &EventController{eventService: eventService, logger: logger}
}

func (c *EventController) GetEvents(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.eventService.GetEvents(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "failed to list events", err, nil),
			c.logger)
	}
	return utils.SuccessResponse(ctx, res, "event list", http.StatusOK, total)
}

func (c *EventController) FindEvent(ctx echo.Context) error {
	id, err := utils.ParseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.FindEvent(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "event found", http.StatusOK)
}

func (c *EventController) CreateEvent(ctx echo.Context) error {
	var payload dto.CreateEventDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.CreateEvent(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "event created", http.StatusCreated)
}

func (c *EventController) UpdateEvent(ctx echo.Context) error {
	id, err := utils.ParseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEventDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.UpdateEvent(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "event updated", http.StatusOK)
}

func (c *EventController) DeleteEvent(ctx echo.Context) error {
	id, err := utils.ParseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.eventService.DeleteEvent(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "event deleted", http.StatusOK)
}
