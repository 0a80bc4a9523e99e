package models

import "time"

// IrrigationAck acknowledges a manual watering request
type IrrigationAck struct {
	RequestID string    `json:"request_id"`
	DeviceID  string    `json:"device_id"`
	Message   string    `json:"message"`
	IssuedAt  time.Time `json:"issued_at"`
}
