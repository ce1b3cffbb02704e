package authz

const (
	Superuser = "superuser"

	EquipmentCreate = "equipment:create"
	EquipmentUpdate = "equipment:update"
	EquipmentDelete = "equipment:delete"
	EquipmentStatus = "equipment:status"

	EventsDelete = "events:delete"

	MaintenanceCreate   = "maintenance:create"
	MaintenanceUpdate   = "maintenance:update"
	MaintenanceComplete = "maintenance:complete"
	MaintenanceDelete   = "maintenance:delete"
	MaintenanceLog      = "maintenance:log"
)
