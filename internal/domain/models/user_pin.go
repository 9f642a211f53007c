package models

import (
	"time"
)

// UserPin represents a personal PIN bound to one user at a credential
// scope. At most one row per (user, scope) is active; updating the PIN
// supersedes the previous row rather than deleting it.
type UserPin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	BuildingID uint      `gorm:"not null;index" json:"building_id"`
	IntercomID *uint     `gorm:"index" json:"intercom_id,omitempty"`
	PinHash    string    `gorm:"type:varchar(100);not null" json:"-"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Intercom *Intercom `gorm:"foreignKey:IntercomID" json:"intercom,omitempty"`
}
