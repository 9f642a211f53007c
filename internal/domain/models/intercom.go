package models

import (
	"time"
)

// IntercomStatus represents the status of an intercom device
type IntercomStatus string

const (
	IntercomStatusOnline  IntercomStatus = "online"
	IntercomStatusOffline IntercomStatus = "offline"
	IntercomStatusFault   IntercomStatus = "fault"
)

// Intercom represents a building intercom device
type Intercom struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(50);not null" json:"name"`
	SerialNumber string         `gorm:"type:varchar(50);unique;not null" json:"serial_number"`
	Location     string         `gorm:"type:varchar(100)" json:"location"`
	Status       IntercomStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	BuildingID   uint           `gorm:"not null;index" json:"building_id"`
	AmenityID    *uint          `json:"amenity_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relations
	Building   *Building   `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	AccessLogs []AccessLog `gorm:"foreignKey:IntercomID" json:"access_logs,omitempty"`
}
