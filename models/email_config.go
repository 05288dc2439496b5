package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailConfig struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"tenant_id"`
	Tenant        Tenant    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	FromAddress   string    `gorm:"type:varchar(255)" json:"from_address"`
	AppPassword   string    `gorm:"type:varchar(255)" json:"-"`
	NotifyOnOrder bool      `gorm:"not null;default:false" json:"notify_on_order"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (ec *EmailConfig) BeforeCreate(tx *gorm.DB) error {
	if ec.ID == "" {
		ec.ID = uuid.NewString()
	}
	return nil
}
