package mq

import "strings"

const equipmentStatusPrefix = "equipment.status."

// EquipmentStatusKey is the routing key of a ledger status change,
// e.g. "equipment.status.en_location".
func EquipmentStatusKey(status string) string {
	return equipmentStatusPrefix + strings.ToLower(status)
}
