package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
	"equipment-rental/internal/repositories"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/types"
	"equipment-rental/pkg/utils"
)

const recentHistoryLimit = 10

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uuid.UUID) error
	GetStatusHistory(ctx context.Context, id uuid.UUID) ([]entities.EquipmentStatus, error)
	OverrideStatus(ctx context.Context, id uuid.UUID, payload dto.StatusOverrideDTO) (*entities.EquipmentStatus, error)
}

type EquipmentService struct {
	txManager       repositories.TxManagerInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	statusRepo      repositories.EquipmentStatusRepositoryInterface
	reservationRepo repositories.ReservationRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	writer          *LedgerWriter
	logger          *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	statusRepo repositories.EquipmentStatusRepositoryInterface,
	reservationRepo repositories.ReservationRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	writer *LedgerWriter,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		txManager:       txManager,
		equipmentRepo:   equipmentRepo,
		statusRepo:      statusRepo,
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		writer:          writer,
		logger:          logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	list, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list equipment", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.statusRepo.History(ctx, id, recentHistoryLimit)
	if err != nil {
		s.logger.Error("failed to load status history", zap.String("equipmentID", id.String()), zap.Error(err))
		return nil, err
	}
	eq.StatusHistory = history
	return eq, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	eq := &entities.Equipment{
		Name:             strings.TrimSpace(payload.Name),
		Reference:        strings.TrimSpace(payload.Reference),
		Category:         strings.TrimSpace(payload.Category),
		Brand:            payload.Brand,
		Model:            payload.Model,
		Description:      payload.Description,
		DailyRentalPrice: payload.DailyRentalPrice,
		QuantityTotal:    payload.QuantityTotal,
	}

	var out outbox
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if eq.Reference == "" {
			prefix := utils.CategoryPrefix(eq.Category)
			seq, err := s.equipmentRepo.MaxReferenceSeq(ctx, tx, prefix)
			if err != nil {
				return err
			}
			eq.Reference = fmt.Sprintf("EQ-%s-%03d", prefix, seq+1)
		}

		entry, err := ledger.Create(eq)
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.CreateInTx(ctx, tx, eq); err != nil {
			return err
		}
		entry.EquipmentID = eq.ID
		return s.writer.appendEntry(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Error("failed to create equipment", zap.String("reference", eq.Reference), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "CREATE", "equipment", eq.ID, fmt.Sprintf("Equipment %s created with %d units", eq.Reference, eq.QuantityTotal))
	s.writer.publish(ctx, &out)
	return eq, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	var (
		out outbox
		eq  *entities.Equipment
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		eq, err = s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if payload.Name.Valid {
			eq.Name = strings.TrimSpace(payload.Name.String)
		}
		if payload.Category.Valid {
			eq.Category = strings.TrimSpace(payload.Category.String)
		}
		if payload.Brand.Valid {
			eq.Brand = utils.Ptr(payload.Brand.String)
		}
		if payload.Model.Valid {
			eq.Model = utils.Ptr(payload.Model.String)
		}
		if payload.Description.Valid {
			eq.Description = utils.Ptr(payload.Description.String)
		}
		if payload.DailyRentalPrice.Valid {
			eq.DailyRentalPrice = payload.DailyRentalPrice.Float64
		}

		if payload.QuantityTotal.Valid {
			entry, err := ledger.AdjustTotal(eq, payload.QuantityTotal.Int)
			if err != nil {
				return err
			}
			if entry != nil {
				return s.writer.apply(ctx, tx, eq, *entry, &out)
			}
		}
		return s.equipmentRepo.UpdateInTx(ctx, tx, eq)
	})
	if err != nil {
		s.logger.Error("failed to update equipment", zap.String("equipmentID", id.String()), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "UPDATE", "equipment", eq.ID, fmt.Sprintf("Equipment %s updated", eq.Reference))
	s.writer.publish(ctx, &out)
	return eq, nil
}

// DeleteEquipment refuses while units are out with a client or in maintenance.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	var reference string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		reference = eq.Reference

		outstanding, err := s.reservationRepo.OutstandingByEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if outstanding > 0 {
			return apperrors.NewConflictError("equipment %s still has %d units reserved", eq.Reference, outstanding)
		}
		open, err := s.maintenanceRepo.HasOpenInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if open {
			return apperrors.NewConflictError("equipment %s has an open maintenance ticket", eq.Reference)
		}
		if eq.UnderMaintenanceOverride() {
			return apperrors.NewConflictError("equipment %s still has %d units in maintenance", eq.Reference, eq.QuantityOverrideHeld)
		}
		return s.equipmentRepo.DeleteInTx(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error("failed to delete equipment", zap.String("equipmentID", id.String()), zap.Error(err))
		return err
	}

	var out outbox
	out.activity(ctx, "DELETE", "equipment", id, fmt.Sprintf("Equipment %s deleted", reference))
	s.writer.availability.Invalidate(ctx, id)
	s.writer.publish(ctx, &out)
	return nil
}

func (s *EquipmentService) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]entities.EquipmentStatus, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return nil, err
	}
	return s.statusRepo.History(ctx, id, 0)
}

func (s *EquipmentService) OverrideStatus(ctx context.Context, id uuid.UUID, payload dto.StatusOverrideDTO) (*entities.EquipmentStatus, error) {
	var out outbox
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		entry, err := ledger.Override(eq, entities.EquipmentStatusKind(payload.Status), payload.Quantity, payload.Notes)
		if err != nil {
			return err
		}
		entry.RelatedEventID = payload.RelatedEventID
		entry.RelatedMaintenanceID = payload.RelatedMaintenanceID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("status override rejected", zap.String("equipmentID", id.String()), zap.Error(err))
		return nil, err
	}

	recorded := out.changes[0].Entry
	out.activity(ctx, "STATUS_OVERRIDE", "equipment", id,
		fmt.Sprintf("Status %s (%d) set on %s", recorded.Status, recorded.Quantity, out.changes[0].Reference))
	s.writer.publish(ctx, &out)
	return &recorded, nil
}
