package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/services"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/utils"
)

type ReservationController struct {
	reservationService services.ReservationServiceInterface
	logger             *zap.Logger
}

func NewReservationController(reservationService services.ReservationServiceInterface, logger *zap.Logger) *ReservationController {
	return &ReservationController{reservationService: reservationService, logger: logger}
}

func parseReservationParams(ctx echo.Context) (eventID, reservationID uuid.UUID, err error) {
	if eventID, err = utils.ParseUUIDParam(ctx, "eventId"); err != nil {
		return
	}
	reservationID, err = utils.ParseUUIDParam(ctx, "reservationId")
	return
}

func (c *ReservationController) ListReservations(ctx echo.Context) error {
	eventID, err := utils.ParseUUIDParam(ctx, "eventId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.ListReservations(ctx.Request().Context(), eventID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "reservations", http.StatusOK)
}

func (c *ReservationController) Reserve(ctx echo.Context) error {
	eventID, err := utils.ParseUUIDParam(ctx, "eventId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateReservationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.Reserve(ctx.Request().Context(), eventID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "equipment reserved", http.StatusCreated)
}

func (c *ReservationController) UpdateReservation(ctx echo.Context) error {
	eventID, reservationID, err := parseReservationParams(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateReservationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.UpdateReservation(ctx.Request().Context(), eventID, reservationID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "reservation updated", http.StatusOK)
}

func (c *ReservationController) ReturnEquipment(ctx echo.Context) error {
	eventID, reservationID, err := parseReservationParams(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ReturnEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.ReturnEquipment(ctx.Request().Context(), eventID, reservationID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "equipment returned", http.StatusOK)
}

func (c *ReservationController) RemoveReservation(ctx echo.Context) error {
	eventID, reservationID, err := parseReservationParams(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.reservationService.RemoveReservation(ctx.Request().Context(), eventID, reservationID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "reservation removed", http.StatusOK)
}
