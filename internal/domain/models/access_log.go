package models

import (
	"time"
)

// CredentialType identifies the credential kind that handled an access
// attempt. The set is closed; the verification engine switches over it
// exhaustively.
type CredentialType string

const (
	CredentialTypeMaster     CredentialType = "master"
	CredentialTypeUser       CredentialType = "user"
	CredentialTypeTemporary  CredentialType = "temporary"
	CredentialTypeAccessCode CredentialType = "access_code"
	CredentialTypeFace       CredentialType = "face"
	CredentialTypeNone       CredentialType = "none"
)

// Denial reason codes recorded on AccessLog rows and returned to callers.
const (
	ReasonInvalidCredential = "invalid_credential"
	ReasonExpired           = "expired"
	ReasonNotYetValid       = "not_yet_valid"
	ReasonMaxUsesReached    = "max_uses_reached"
	ReasonCodeInactive      = "code_inactive"
	ReasonFaceNotRecognized = "face_not_recognized"
)

// AccessLog is the immutable record of one verification attempt.
// Rows are created exactly once and never updated or deleted by the
// engine; retention is an operator concern.
type AccessLog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	IntercomID      uint           `gorm:"not null;index" json:"intercom_id"`
	BuildingID      uint           `gorm:"not null;index" json:"building_id"`
	UserID          *uint          `gorm:"index" json:"user_id,omitempty"`
	CredentialType  CredentialType `gorm:"type:varchar(20);not null;index" json:"credential_type"`
	CredentialRefID *uint          `json:"credential_ref_id,omitempty"`
	IsSuccess       bool           `gorm:"index" json:"is_success"`
	Reason          string         `gorm:"type:varchar(50)" json:"reason,omitempty"`
	ClientIP        string         `gorm:"type:varchar(45)" json:"client_ip"`
	DeviceInfo      string         `gorm:"type:varchar(200)" json:"device_info"`
	Timestamp       time.Time      `gorm:"index" json:"timestamp"`

	// Relations
	Intercom *Intercom `gorm:"foreignKey:IntercomID" json:"intercom,omitempty"`
}
