package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"equipment-rental/internal/entities"
)

const dateLayout = "2006-01-02"

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("equipment_status", isEquipmentStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("reservation_status", isReservationStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("ymd_date", isYMDDate); err != nil {
		return err
	}
	return nil
}

func isEquipmentStatus(fl validator.FieldLevel) bool {
	return entities.EquipmentStatusKind(fl.Field().String()).IsValid()
}

func isReservationStatus(fl validator.FieldLevel) bool {
	return entities.ReservationStatus(fl.Field().String()).IsValid()
}

// isYMDDate accepts "2006-01-02".
func isYMDDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}
