package models

import (
	"time"
)

// TemporaryPinUsage is the immutable record of one consumption of a
// temporary PIN. It exists so UsesSoFar on TemporaryPin can be derived
// and audited independently of the counter itself.
type TemporaryPinUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TemporaryPinID uint      `gorm:"not null;index" json:"temporary_pin_id"`
	ClientIP       string    `gorm:"type:varchar(45)" json:"client_ip"`
	DeviceInfo     string    `gorm:"type:varchar(200)" json:"device_info"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`

	// Relations
	TemporaryPin *TemporaryPin `gorm:"foreignKey:TemporaryPinID" json:"temporary_pin,omitempty"`
}
