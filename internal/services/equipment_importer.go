package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/pkg/utils"
)

// ImportResult summarises one spreadsheet import.
type ImportResult struct {
	Created []string `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// EquipmentImportService creates equipment from an inventory spreadsheet. Each
// line goes through EquipmentService, so it gets a reference and an initial
// status entry like any other creation.
type EquipmentImportService struct {
	equipment EquipmentServiceInterface
	validator echo.Validator
	logger    *zap.Logger
}

func NewEquipmentImportService(equipment EquipmentServiceInterface, validator echo.Validator, logger *zap.Logger) *EquipmentImportService {
	return &EquipmentImportService{equipment: equipment, validator: validator, logger: logger}
}

type importColumns struct {
	name, category, quantity, brand, model, price, reference int
}

// detectColumns looks for the header line: it must name at least the item and its quantity.
func detectColumns(row []string) (importColumns, bool) {
	cols := importColumns{-1, -1, -1, -1, -1, -1, -1}
	for i, raw := range row {
		switch utils.GenerateCodeFromName(raw) {
		case "NOM", "NAME", "DESIGNATION":
			cols.name = i
		case "CATEGORIE", "CATEGORY":
			cols.category = i
		case "QUANTITE", "QUANTITY", "QTE", "QUANTITE_TOTALE":
			cols.quantity = i
		case "MARQUE", "BRAND":
			cols.brand = i
		case "MODELE", "MODEL":
			cols.model = i
		case "PRIX", "PRIX_JOUR", "PRICE", "DAILY_RENTAL_PRICE":
			cols.price = i
		case "REFERENCE", "REF":
			cols.reference = i
		}
	}
	return cols, cols.name != -1 && cols.quantity != -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optional(row []string, idx int) *string {
	if v := cellAt(row, idx); v != "" {
		return &v
	}
	return nil
}

// ImportFile reads the first sheet that has a recognisable header. A bad line
// is reported and skipped; it never aborts the lines after it.
func (s *EquipmentImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		rows      [][]string
		cols      importColumns
		headerRow = -1
	)
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for i, row := range sheetRows {
			if c, ok := detectColumns(row); ok {
				rows, cols, headerRow = sheetRows, c, i
				break
			}
		}
		if headerRow != -1 {
			break
		}
	}
	if headerRow == -1 {
		return nil, fmt.Errorf("no header with a name and a quantity column found in %s", path)
	}

	result := &ImportResult{Created: []string{}, Errors: []string{}}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1

		name := cellAt(row, cols.name)
		if name == "" {
			result.Skipped++
			continue
		}

		qty, err := strconv.Atoi(cellAt(row, cols.quantity))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid quantity %q", line, cellAt(row, cols.quantity)))
			continue
		}
		payload := dto.CreateEquipmentDTO{
			Name:          name,
			Reference:     cellAt(row, cols.reference),
			Category:      cellAt(row, cols.category),
			Brand:         optional(row, cols.brand),
			Model:         optional(row, cols.model),
			QuantityTotal: qty,
		}
		if payload.Category == "" {
			payload.Category = "GENERAL"
		}
		if raw := strings.ReplaceAll(cellAt(row, cols.price), ",", "."); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid price %q", line, raw))
				continue
			}
			payload.DailyRentalPrice = price
		}
		if err := s.validator.Validate(&payload); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		eq, err := s.equipment.CreateEquipment(ctx, payload)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Created = append(result.Created, eq.Reference)
	}

	s.logger.Info("equipment import finished",
		zap.String("file", path),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}
