package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusPayload struct {
	Status   string      `validate:"required,equipment_status"`
	Quantity int         `validate:"gte=0"`
	Date     string      `validate:"omitempty,ymd_date"`
	Notes    null.String `validate:"omitempty,max=5"`
}

type reservationPayload struct {
	Status null.String `validate:"omitempty,reservation_status"`
}

func TestValidate_EquipmentStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&statusPayload{Status: "EN_LOCATION", Date: "2024-06-01"}))

	err := v.Validate(&statusPayload{Status: "BROKEN"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "equipment_status", verrs[0].Tag())
}

func TestValidate_DateAndNullTypes(t *testing.T) {
	v := New()

	assert.Error(t, v.Validate(&statusPayload{Status: "DISPONIBLE", Date: "01/06/2024"}))
	assert.Error(t, v.Validate(&statusPayload{Status: "DISPONIBLE", Notes: null.StringFrom("too long")}))
	assert.NoError(t, v.Validate(&statusPayload{Status: "DISPONIBLE", Notes: null.String{}}))
}

func TestValidate_ReservationStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&reservationPayload{}))
	assert.NoError(t, v.Validate(&reservationPayload{Status: null.StringFrom("LIVRE")}))
	assert.Error(t, v.Validate(&reservationPayload{Status: null.StringFrom("PERDU")}))
}

type namedPayload struct {
	QuantityTotal int    `json:"quantity_total" validate:"gte=1"`
	Category      string `validate:"required"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := New().Validate(&namedPayload{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "quantity_total", verrs[0].Field())
	assert.Equal(t, "Category", verrs[1].Field())
}
