package models

import (
	"time"
)

// AccessCodeType represents the presentation form of an access code
type AccessCodeType string

const (
	AccessCodeTypeQR  AccessCodeType = "qr"
	AccessCodeTypePIN AccessCodeType = "pin"
)

// AccessCode represents a QR or PIN credential issued independently of
// a specific user. A nil IntercomID makes the code valid for every
// intercom in the building; a nil ExpiresAt means the code never
// expires. Deactivation is a permanent soft delete.
type AccessCode struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BuildingID  uint           `gorm:"not null;index" json:"building_id"`
	IntercomID  *uint          `gorm:"index" json:"intercom_id,omitempty"`
	TenantID    *uint          `gorm:"index" json:"tenant_id,omitempty"`
	CodeType    AccessCodeType `gorm:"type:varchar(10);not null" json:"code_type"`
	CodeHash    string         `gorm:"type:varchar(100);not null" json:"-"`
	Label       string         `gorm:"type:varchar(50)" json:"label"`
	IsSingleUse bool           `gorm:"default:false" json:"is_single_use"`
	ValidFrom   *time.Time     `json:"valid_from,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// PlainCode is populated only in the create response when the caller
	// asks for a one-time reveal; it is never persisted.
	PlainCode string `gorm:"-" json:"plain_code,omitempty"`

	// Relations
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Intercom *Intercom `gorm:"foreignKey:IntercomID" json:"intercom,omitempty"`
	Tenant   *Tenant   `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// IsWithinWindow returns true if the code is inside its validity window.
func (c *AccessCode) IsWithinWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}
