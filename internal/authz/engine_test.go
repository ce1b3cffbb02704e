package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"equipment-rental/internal/entities"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role       string
		permission string
		want       bool
	}{
		{entities.RoleAdmin, EquipmentDelete, true},
		{entities.RoleAdmin, MaintenanceDelete, true},
		{entities.RoleMaintenance, EquipmentStatus, true},
		{entities.RoleMaintenance, EquipmentDelete, false},
		{entities.RoleTechnicien, MaintenanceComplete, true},
		{entities.RoleTechnicien, EquipmentCreate, false},
		{entities.RoleCommercial, MaintenanceCreate, false},
		{"", EquipmentCreate, false},
		{"GUEST", MaintenanceLog, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Can(tc.role, tc.permission), "%s %s", tc.role, tc.permission)
	}
}
