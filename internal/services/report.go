package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-rental/internal/repositories"
	"equipment-rental/pkg/utils"
)

const inventorySheet = "Inventaire"

var inventoryHeaders = []interface{}{
	"Référence", "Nom", "Catégorie", "Marque", "Modèle", "Prix / jour",
	"Total", "Disponible", "Réservé", "En maintenance", "Autre",
}

type ReportServiceInterface interface {
	WriteInventory(ctx context.Context, w io.Writer) error
}

type ReportService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewReportService(equipmentRepo repositories.EquipmentRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{equipmentRepo: equipmentRepo, logger: logger}
}

// WriteInventory streams an XLSX sheet with one line per item and where its units are.
func (s *ReportService) WriteInventory(ctx context.Context, w io.Writer) error {
	rows, err := s.equipmentRepo.AuditRows(ctx)
	if err != nil {
		s.logger.Error("failed to load inventory", zap.Error(err))
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(inventorySheet, "A1", &inventoryHeaders); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(inventorySheet, "A1", "K1", style); err != nil {
		return err
	}

	for i, row := range rows {
		eq := row.Equipment
		other := eq.Committed() - row.Outstanding - row.Held
		if other < 0 {
			other = 0
		}
		line := []interface{}{
			eq.Reference, eq.Name, eq.Category, utils.SafeDeref(eq.Brand), utils.SafeDeref(eq.Model), eq.DailyRentalPrice,
			eq.QuantityTotal, eq.QuantityAvailable, row.Outstanding, row.Held, other,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(inventorySheet, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(inventorySheet, "A", "A", 16)
	_ = f.SetColWidth(inventorySheet, "B", "B", 35)
	_ = f.SetColWidth(inventorySheet, "C", "E", 18)

	_, err = f.WriteTo(w)
	return err
}
