package authz

import "equipment-rental/internal/entities"

// Anything not listed here is open to every authenticated user: reading,
// creating and editing events, and managing their reservations.
var rolePermissions = map[string]map[string]bool{
	entities.RoleAdmin: {
		Superuser: true,
	},
	entities.RoleMaintenance: {
		EquipmentCreate:     true,
		EquipmentUpdate:     true,
		EquipmentStatus:     true,
		MaintenanceCreate:   true,
		MaintenanceUpdate:   true,
		MaintenanceComplete: true,
		MaintenanceLog:      true,
	},
	entities.RoleTechnicien: {
		MaintenanceCreate:   true,
		MaintenanceUpdate:   true,
		MaintenanceComplete: true,
		MaintenanceLog:      true,
	},
	entities.RoleCommercial: {},
}

// Can reports whether role holds permission.
func Can(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[Superuser] || perms[permission]
}
