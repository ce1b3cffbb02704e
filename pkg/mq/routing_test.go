package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquipmentStatusKey(t *testing.T) {
	assert.Equal(t, "equipment.status.en_location", EquipmentStatusKey("EN_LOCATION"))
	assert.Equal(t, "equipment.status.disponible", EquipmentStatusKey("DISPONIBLE"))
}
