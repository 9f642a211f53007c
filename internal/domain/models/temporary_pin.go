package models

import (
	"time"
)

// TemporaryPin represents a time- and use-bounded one-off PIN.
// Once the validity window has passed or the use budget is spent the
// credential is permanently unusable; it is never reactivated.
type TemporaryPin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BuildingID uint      `gorm:"not null;index" json:"building_id"`
	IntercomID *uint     `gorm:"index" json:"intercom_id,omitempty"`
	PinHash    string    `gorm:"type:varchar(100);not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	MaxUses    int       `gorm:"not null" json:"max_uses"`
	UsesSoFar  int       `gorm:"not null;default:0" json:"uses_so_far"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedBy  *uint     `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Building *Building          `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Intercom *Intercom          `gorm:"foreignKey:IntercomID" json:"intercom,omitempty"`
	Usages   []TemporaryPinUsage `gorm:"foreignKey:TemporaryPinID" json:"usages,omitempty"`
}

// IsExpired returns true if the validity window has passed.
func (p *TemporaryPin) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// IsExhausted returns true if the use budget is spent.
func (p *TemporaryPin) IsExhausted() bool {
	return p.UsesSoFar >= p.MaxUses
}
