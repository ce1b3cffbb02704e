package websocket

import "time"

// Envelope wraps every pushed message so clients can switch on Type.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const MessageAvailabilityChanged = "availability.changed"

// AvailabilityPayload is pushed after every committed ledger change.
type AvailabilityPayload struct {
	EquipmentID       string `json:"equipment_id"`
	Reference         string `json:"reference"`
	Status            string `json:"status"`
	Quantity          int    `json:"quantity"`
	QuantityTotal     int    `json:"quantity_total"`
	QuantityAvailable int    `json:"quantity_available"`
	RelatedEventID    string `json:"related_event_id,omitempty"`
}
