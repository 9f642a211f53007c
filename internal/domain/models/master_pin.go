package models

import (
	"time"
)

// MasterPin represents the administrative PIN for a credential scope.
// A nil IntercomID means the PIN is building-wide and covers every
// intercom in the building. At most one row per scope is active;
// setting a new PIN deactivates the previous row instead of deleting it.
type MasterPin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BuildingID uint      `gorm:"not null;index" json:"building_id"`
	IntercomID *uint     `gorm:"index" json:"intercom_id,omitempty"`
	PinHash    string    `gorm:"type:varchar(100);not null" json:"-"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedBy  *uint     `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Intercom *Intercom `gorm:"foreignKey:IntercomID" json:"intercom,omitempty"`
}
