package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
	"equipment-rental/internal/repositories"
	apperrors "equipment-rental/pkg/errors"
)

type ReservationServiceInterface interface {
	ListReservations(ctx context.Context, eventID uuid.UUID) ([]entities.EventEquipment, error)
	Reserve(ctx context.Context, eventID uuid.UUID, payload dto.CreateReservationDTO) (*entities.EventEquipment, error)
	UpdateReservation(ctx context.Context, eventID, reservationID uuid.UUID, payload dto.UpdateReservationDTO) (*entities.EventEquipment, error)
	ReturnEquipment(ctx context.Context, eventID, reservationID uuid.UUID, payload dto.ReturnEquipmentDTO) (*entities.EventEquipment, error)
	RemoveReservation(ctx context.Context, eventID, reservationID uuid.UUID) error
}

// ReservationService moves units between the pool and events. Lock order in
// every transaction: event, reservation, equipment.
type ReservationService struct {
	txManager       repositories.TxManagerInterface
	eventRepo       repositories.EventRepositoryInterface
	reservationRepo repositories.ReservationRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	writer          *LedgerWriter
	logger          *zap.Logger
}

func NewReservationService(
	txManager repositories.TxManagerInterface,
	eventRepo repositories.EventRepositoryInterface,
	reservationRepo repositories.ReservationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	writer *LedgerWriter,
	logger *zap.Logger,
) ReservationServiceInterface {
	return &ReservationService{
		txManager:       txManager,
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		writer:          writer,
		logger:          logger,
	}
}

func (s *ReservationService) ListReservations(ctx context.Context, eventID uuid.UUID) ([]entities.EventEquipment, error) {
	if _, err := s.eventRepo.FindEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.reservationRepo.ListByEvent(ctx, eventID)
}

func (s *ReservationService) Reserve(ctx context.Context, eventID uuid.UUID, payload dto.CreateReservationDTO) (*entities.EventEquipment, error) {
	res := &entities.EventEquipment{
		EventID:          eventID,
		EquipmentID:      payload.EquipmentID,
		QuantityReserved: payload.Quantity,
		Status:           entities.ReservationReserve,
		Notes:            payload.Notes,
	}

	var out outbox
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ev, err := s.eventRepo.FindForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if !ev.AcceptsReservations() {
			return apperrors.NewValidationError("event %q is %s and accepts no reservation", ev.EventName, ev.Status)
		}

		exists, err := s.reservationRepo.ExistsInTx(ctx, tx, eventID, payload.EquipmentID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError("equipment is already reserved for this event")
		}

		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}
		underMaintenance, err := s.writer.maintenanceOutstanding(ctx, tx, eq)
		if err != nil {
			return err
		}
		entry, err := ledger.Reserve(eq, payload.Quantity, underMaintenance)
		if err != nil {
			return err
		}
		if err := s.reservationRepo.CreateInTx(ctx, tx, res); err != nil {
			return err
		}
		res.EquipmentName = eq.Name
		res.EquipmentReference = eq.Reference

		entry.RelatedEventID = &eventID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("reservation rejected",
			zap.String("eventID", eventID.String()),
			zap.String("equipmentID", payload.EquipmentID.String()),
			zap.Int("quantity", payload.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	out.activity(ctx, "RESERVE", "reservation", res.ID,
		fmt.Sprintf("%d x %s reserved", res.QuantityReserved, res.EquipmentReference))
	s.writer.publish(ctx, &out)
	return res, nil
}

// UpdateReservation applies quantity changes through the ledger, then the
// logistics status and notes. When both quantities change, the one that keeps
// returned <= reserved valid at every step goes first.
func (s *ReservationService) UpdateReservation(ctx context.Context, eventID, reservationID uuid.UUID, payload dto.UpdateReservationDTO) (*entities.EventEquipment, error) {
	var (
		out outbox
		res *entities.EventEquipment
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		res, err = s.reservationRepo.FindForUpdate(ctx, tx, eventID, reservationID)
		if err != nil {
			return err
		}
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, res.EquipmentID)
		if err != nil {
			return err
		}
		res.EquipmentName = eq.Name
		res.EquipmentReference = eq.Reference

		changeReserved := func() error {
			if !payload.QuantityReserved.Valid {
				return nil
			}
			underMaintenance, err := s.writer.maintenanceOutstanding(ctx, tx, eq)
			if err != nil {
				return err
			}
			entry, err := ledger.ChangeReserved(eq, res, payload.QuantityReserved.Int, underMaintenance)
			if err != nil || entry == nil {
				return err
			}
			entry.RelatedEventID = &eventID
			return s.writer.apply(ctx, tx, eq, *entry, &out)
		}
		changeReturned := func() error {
			if !payload.QuantityReturned.Valid {
				return nil
			}
			underMaintenance, err := s.writer.maintenanceOutstanding(ctx, tx, eq)
			if err != nil {
				return err
			}
			entry, err := ledger.ChangeReturned(eq, res, payload.QuantityReturned.Int, underMaintenance)
			if err != nil || entry == nil {
				return err
			}
			entry.RelatedEventID = &eventID
			return s.writer.apply(ctx, tx, eq, *entry, &out)
		}

		steps := []func() error{changeReserved, changeReturned}
		if payload.QuantityReserved.Valid && payload.QuantityReserved.Int < res.QuantityReturned {
			steps = []func() error{changeReturned, changeReserved}
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		if payload.Status.Valid {
			if err := setLogisticsStatus(res, entities.ReservationStatus(payload.Status.String)); err != nil {
				return err
			}
		}
		if payload.Notes.Valid {
			notes := payload.Notes.String
			res.Notes = &notes
		}
		return s.reservationRepo.UpdateInTx(ctx, tx, res)
	})
	if err != nil {
		s.logger.Warn("reservation update rejected", zap.String("reservationID", reservationID.String()), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "UPDATE", "reservation", res.ID,
		fmt.Sprintf("Reservation of %s now %d reserved, %d returned", res.EquipmentReference, res.QuantityReserved, res.QuantityReturned))
	s.writer.publish(ctx, &out)
	return res, nil
}

// setLogisticsStatus never moves units, so it may not contradict the quantities:
// RETOURNE means everything is back, RESERVE and LIVRE mean something is still out.
func setLogisticsStatus(res *entities.EventEquipment, status entities.ReservationStatus) error {
	if !status.IsValid() {
		return apperrors.NewValidationError("unknown reservation status %q", status)
	}
	outstanding := res.Outstanding()
	if status == entities.ReservationRetourne && outstanding > 0 {
		return apperrors.NewValidationError("%d units are still out, record a return instead", outstanding)
	}
	if status != entities.ReservationRetourne && outstanding == 0 {
		return apperrors.NewValidationError("all units are back, status can only be %s", entities.ReservationRetourne)
	}
	res.Status = status
	return nil
}

func (s *ReservationService) ReturnEquipment(ctx context.Context, eventID, reservationID uuid.UUID, payload dto.ReturnEquipmentDTO) (*entities.EventEquipment, error) {
	var (
		out outbox
		res *entities.EventEquipment
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		res, err = s.reservationRepo.FindForUpdate(ctx, tx, eventID, reservationID)
		if err != nil {
			return err
		}
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, res.EquipmentID)
		if err != nil {
			return err
		}
		res.EquipmentName = eq.Name
		res.EquipmentReference = eq.Reference

		entry, err := ledger.Return(eq, res, payload.Quantity)
		if err != nil {
			return err
		}
		if err := s.reservationRepo.UpdateInTx(ctx, tx, res); err != nil {
			return err
		}
		entry.RelatedEventID = &eventID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("return rejected", zap.String("reservationID", reservationID.String()), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "RETURN", "reservation", res.ID,
		fmt.Sprintf("%d x %s returned (%d/%d)", payload.Quantity, res.EquipmentReference, res.QuantityReturned, res.QuantityReserved))
	s.writer.publish(ctx, &out)
	return res, nil
}

func (s *ReservationService) RemoveReservation(ctx context.Context, eventID, reservationID uuid.UUID) error {
	var (
		out       outbox
		reference string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		res, err := s.reservationRepo.FindForUpdate(ctx, tx, eventID, reservationID)
		if err != nil {
			return err
		}
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, res.EquipmentID)
		if err != nil {
			return err
		}
		reference = eq.Reference

		entry := ledger.Release(eq, res)
		entry.RelatedEventID = &eventID
		if err := s.reservationRepo.DeleteInTx(ctx, tx, res.ID); err != nil {
			return err
		}
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("reservation removal failed", zap.String("reservationID", reservationID.String()), zap.Error(err))
		return err
	}

	out.activity(ctx, "DELETE", "reservation", reservationID, fmt.Sprintf("Reservation of %s removed", reference))
	s.writer.publish(ctx, &out)
	return nil
}
