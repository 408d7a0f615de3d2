package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription holds a browser push subscription for a company's
// user. Expiry alerts for the company's assets fan out to all of them.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
