package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who did what to which entity. Written on
// certificate issuance and revocation and on asset deletion.
type AuditLog struct {
	ID         int64      `gorm:"autoIncrement;primaryKey" json:"id"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	Action     string     `gorm:"size:100;not null" json:"action"`
	EntityType string     `gorm:"size:50;not null" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid" json:"entity_id"`
	Details    string     `json:"details,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}
