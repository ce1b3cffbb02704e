package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-rental/internal/ledger"
	"equipment-rental/internal/repositories"
)

type ReconcileServiceInterface interface {
	Audit(ctx context.Context) ([]ledger.Drift, error)
	Fix(ctx context.Context) ([]ledger.Drift, error)
}

// ReconcileService compares every stored counter with its replayed status log.
type ReconcileService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	statusRepo    repositories.EquipmentStatusRepositoryInterface
	writer        *LedgerWriter
	logger        *zap.Logger
}

func NewReconcileService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	statusRepo repositories.EquipmentStatusRepositoryInterface,
	writer *LedgerWriter,
	logger *zap.Logger,
) ReconcileServiceInterface {
	return &ReconcileService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		statusRepo:    statusRepo,
		writer:        writer,
		logger:        logger,
	}
}

func (s *ReconcileService) Audit(ctx context.Context) ([]ledger.Drift, error) {
	rows, err := s.equipmentRepo.AuditRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load audit rows: %w", err)
	}

	drifts := make([]ledger.Drift, 0)
	for _, row := range rows {
		drift := ledger.Audit(row.Equipment, row.LogSum, row.Outstanding+row.Held+row.Equipment.QuantityOverrideHeld)
		if drift == nil {
			continue
		}
		s.logger.Warn("ledger drift",
			zap.String("equipmentID", drift.EquipmentID.String()),
			zap.String("reference", drift.Reference),
			zap.Int("stored", drift.Stored),
			zap.Int("replayed", drift.Replayed),
			zap.Int("tracked", drift.Tracked),
			zap.Strings("problems", drift.Problems),
		)
		drifts = append(drifts, *drift)
	}
	s.logger.Info("ledger audit finished", zap.Int("equipment", len(rows)), zap.Int("drifts", len(drifts)))
	return drifts, nil
}

// Fix resets each drifting counter to its replayed value. Drift in tracked
// commitments alone cannot be repaired from the log and is only reported.
func (s *ReconcileService) Fix(ctx context.Context) ([]ledger.Drift, error) {
	drifts, err := s.Audit(ctx)
	if err != nil {
		return nil, err
	}

	var out outbox
	for _, d := range drifts {
		if d.Stored == d.Replayed && d.Stored >= 0 && d.Stored <= d.Total {
			continue
		}
		err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, d.EquipmentID)
			if err != nil {
				return err
			}
			replayed, err := s.statusRepo.SumDeltasInTx(ctx, tx, eq.ID)
			if err != nil {
				return err
			}
			correction := ledger.Fix(eq, replayed)
			if correction == nil {
				return s.equipmentRepo.UpdateInTx(ctx, tx, eq)
			}
			return s.writer.apply(ctx, tx, eq, *correction, &out)
		})
		if err != nil {
			return drifts, fmt.Errorf("fix %s: %w", d.Reference, err)
		}
		s.writer.availability.Invalidate(ctx, d.EquipmentID)
		out.activity(ctx, "RECONCILE", "equipment", d.EquipmentID,
			fmt.Sprintf("Counter of %s reset from %d to the replayed log", d.Reference, d.Stored))
		s.logger.Info("ledger drift fixed", zap.String("reference", d.Reference))
	}

	s.writer.publish(ctx, &out)
	return drifts, nil
}
