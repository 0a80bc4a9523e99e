// FilePath: internal/models/models.snapshot.go
package models

import "time"

// SensorSnapshot is a single reading of the garden sensors. Optional
// measurements are pointers so that "absent" survives the round trip as null.
type SensorSnapshot struct {
	ID            string     `json:"-" db:"id"`
	DeviceID      string     `json:"-" db:"device_id"`
	Timestamp     time.Time  `json:"timestamp" db:"timestamp"`
	SoilHumidity  *float64   `json:"soilHumidity" db:"soil_humidity"`
	Temperature   *float64   `json:"temperature" db:"temperature"`
	AirHumidity   *float64   `json:"airHumidity" db:"air_humidity"`
	GeneralStatus *string    `json:"generalStatus" db:"general_status"`
	LastWatering  *time.Time `json:"lastWatering" db:"last_watering"`
}
