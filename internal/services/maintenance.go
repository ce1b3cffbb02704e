package services

import (
	"context"
	"fmt"
	"strings"
	"time"

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

type MaintenanceServiceInterface interface {
	GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error)
	FindMaintenance(ctx context.Context, id uuid.UUID) (*entities.Maintenance, error)
	CreateMaintenance(ctx context.Context, payload dto.CreateMaintenanceDTO) (*entities.Maintenance, error)
	UpdateMaintenance(ctx context.Context, id uuid.UUID, payload dto.UpdateMaintenanceDTO) (*entities.Maintenance, error)
	CompleteMaintenance(ctx context.Context, id uuid.UUID, payload dto.CompleteMaintenanceDTO) (*entities.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id uuid.UUID) error
	AddLog(ctx context.Context, id uuid.UUID, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error)
}

// MaintenanceService holds units out of the pool while a ticket is open. How
// many a new ticket takes depends on the configured policy; the ticket stores
// that number and gives exactly it back.
type MaintenanceService struct {
	txManager       repositories.TxManagerInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	logRepo         repositories.MaintenanceLogRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	writer          *LedgerWriter
	policy          ledger.MaintenancePolicy
	logger          *zap.Logger
}

func NewMaintenanceService(
	txManager repositories.TxManagerInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	logRepo repositories.MaintenanceLogRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	writer *LedgerWriter,
	policy ledger.MaintenancePolicy,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		txManager:       txManager,
		maintenanceRepo: maintenanceRepo,
		logRepo:         logRepo,
		equipmentRepo:   equipmentRepo,
		writer:          writer,
		policy:          policy,
		logger:          logger,
	}
}

func (s *MaintenanceService) GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error) {
	list, total, err := s.maintenanceRepo.GetMaintenances(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list maintenance tickets", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *MaintenanceService) FindMaintenance(ctx context.Context, id uuid.UUID) (*entities.Maintenance, error) {
	m, err := s.maintenanceRepo.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Logs = logs
	return m, nil
}

func (s *MaintenanceService) statusLog(ctx context.Context, tx pgx.Tx, maintenanceID uuid.UUID, content string) error {
	return s.logRepo.CreateInTx(ctx, tx, &entities.MaintenanceLog{
		MaintenanceID: maintenanceID,
		UserID:        actorID(ctx),
		Content:       content,
		Type:          entities.MaintenanceLogStatusChange,
	})
}

func (s *MaintenanceService) CreateMaintenance(ctx context.Context, payload dto.CreateMaintenanceDTO) (*entities.Maintenance, error) {
	m := &entities.Maintenance{
		EquipmentID:        payload.EquipmentID,
		ProblemDescription: strings.TrimSpace(payload.ProblemDescription),
		TechnicianID:       payload.TechnicianID,
		Priority:           entities.PriorityMoyenne,
		Status:             entities.MaintenanceEnAttente,
		StartDate:          time.Now(),
		Cost:               payload.Cost,
	}
	if payload.Priority != "" {
		m.Priority = entities.MaintenancePriority(payload.Priority)
	}
	if payload.ExpectedEndDate != "" {
		end, err := parseDate("expected_end_date", payload.ExpectedEndDate)
		if err != nil {
			return nil, err
		}
		m.ExpectedEndDate = &end
	}

	var (
		out       outbox
		reference string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}
		reference = eq.Reference

		held, entry, err := ledger.OpenMaintenance(eq, s.policy)
		if err != nil {
			return err
		}
		m.QuantityHeld = held
		if err := s.maintenanceRepo.CreateInTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.statusLog(ctx, tx, m.ID, fmt.Sprintf("Ticket opened, %d unit(s) held", held)); err != nil {
			return err
		}
		entry.RelatedMaintenanceID = &m.ID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("maintenance creation rejected", zap.String("equipmentID", payload.EquipmentID.String()), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "CREATE", "maintenance", m.ID, fmt.Sprintf("%d x %s sent to maintenance", m.QuantityHeld, reference))
	s.writer.publish(ctx, &out)
	return m, nil
}

// UpdateMaintenance edits the ticket and moves it between EN_ATTENTE and
// EN_COURS. It never touches counters.
func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, id uuid.UUID, payload dto.UpdateMaintenanceDTO) (*entities.Maintenance, error) {
	var m *entities.Maintenance
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		m, err = s.maintenanceRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if payload.ProblemDescription.Valid {
			m.ProblemDescription = strings.TrimSpace(payload.ProblemDescription.String)
		}
		if payload.TechnicianID != nil {
			m.TechnicianID = payload.TechnicianID
		}
		if payload.Priority.Valid {
			m.Priority = entities.MaintenancePriority(payload.Priority.String)
		}
		if payload.ExpectedEndDate.Valid {
			end, err := parseDate("expected_end_date", payload.ExpectedEndDate.String)
			if err != nil {
				return err
			}
			m.ExpectedEndDate = &end
		}
		if payload.Cost.Valid {
			m.Cost = utils.Ptr(payload.Cost.Float64)
		}
		if payload.SolutionDescription.Valid {
			m.SolutionDescription = utils.Ptr(payload.SolutionDescription.String)
		}

		if payload.Status.Valid {
			next := entities.MaintenanceStatus(payload.Status.String)
			if next != m.Status {
				if !m.IsOpen() {
					return apperrors.NewValidationError("maintenance %s is completed, its status cannot change", m.ID)
				}
				if err := s.statusLog(ctx, tx, m.ID, fmt.Sprintf("Status changed from %s to %s", m.Status, next)); err != nil {
					return err
				}
				m.Status = next
			}
		}
		return s.maintenanceRepo.UpdateInTx(ctx, tx, m)
	})
	if err != nil {
		s.logger.Warn("maintenance update rejected", zap.String("maintenanceID", id.String()), zap.Error(err))
		return nil, err
	}

	var out outbox
	out.activity(ctx, "UPDATE", "maintenance", m.ID, fmt.Sprintf("Maintenance ticket updated (status %s)", m.Status))
	s.writer.publish(ctx, &out)
	return m, nil
}

func (s *MaintenanceService) CompleteMaintenance(ctx context.Context, id uuid.UUID, payload dto.CompleteMaintenanceDTO) (*entities.Maintenance, error) {
	var (
		out outbox
		m   *entities.Maintenance
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		m, err = s.maintenanceRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, m.EquipmentID)
		if err != nil {
			return err
		}

		entry, err := ledger.CompleteMaintenance(eq, m)
		if err != nil {
			return err
		}
		now := time.Now()
		m.Status = entities.MaintenanceTermine
		m.ActualEndDate = &now
		if payload.SolutionDescription != nil {
			m.SolutionDescription = payload.SolutionDescription
		}
		if payload.Cost != nil {
			m.Cost = payload.Cost
		}
		if err := s.maintenanceRepo.UpdateInTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.statusLog(ctx, tx, m.ID, fmt.Sprintf("Ticket completed, %d unit(s) released", m.QuantityHeld)); err != nil {
			return err
		}
		entry.RelatedMaintenanceID = &m.ID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("maintenance completion rejected", zap.String("maintenanceID", id.String()), zap.Error(err))
		return nil, err
	}

	out.activity(ctx, "COMPLETE", "maintenance", m.ID, fmt.Sprintf("Maintenance completed, %d unit(s) back", m.QuantityHeld))
	s.writer.publish(ctx, &out)
	return m, nil
}

// DeleteMaintenance releases the hold of an open ticket before deleting it.
// Completed tickets are history and stay.
func (s *MaintenanceService) DeleteMaintenance(ctx context.Context, id uuid.UUID) error {
	var out outbox
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		m, err := s.maintenanceRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, m.EquipmentID)
		if err != nil {
			return err
		}
		entry, err := ledger.CancelMaintenance(eq, m)
		if err != nil {
			return err
		}
		if err := s.maintenanceRepo.DeleteInTx(ctx, tx, id); err != nil {
			return err
		}
		entry.RelatedMaintenanceID = &m.ID
		return s.writer.apply(ctx, tx, eq, entry, &out)
	})
	if err != nil {
		s.logger.Warn("maintenance deletion rejected", zap.String("maintenanceID", id.String()), zap.Error(err))
		return err
	}

	out.activity(ctx, "DELETE", "maintenance", id, "Maintenance ticket deleted")
	s.writer.publish(ctx, &out)
	return nil
}

func (s *MaintenanceService) AddLog(ctx context.Context, id uuid.UUID, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error) {
	if _, err := s.maintenanceRepo.FindMaintenance(ctx, id); err != nil {
		return nil, err
	}
	log := &entities.MaintenanceLog{
		MaintenanceID: id,
		UserID:        actorID(ctx),
		Content:       strings.TrimSpace(payload.Content),
		Type:          entities.MaintenanceLogComment,
	}
	if err := s.logRepo.CreateInTx(ctx, nil, log); err != nil {
		s.logger.Error("failed to add maintenance log", zap.String("maintenanceID", id.String()), zap.Error(err))
		return nil, err
	}
	return log, nil
}
