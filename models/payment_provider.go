package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentProvider struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_provider_tenant_name" json:"tenant_id"`
	Tenant        Tenant    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	Provider      string    `gorm:"type:varchar(50);not null;default:'razorpay';uniqueIndex:idx_provider_tenant_name" json:"provider"`
	KeyID         string    `gorm:"type:varchar(255)" json:"key_id"`
	KeySecret     string    `gorm:"type:varchar(255)" json:"-"`
	WebhookSecret string    `gorm:"type:varchar(255)" json:"-"`
	IsEnabled     bool      `gorm:"not null;default:false" json:"is_enabled"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (pp *PaymentProvider) BeforeCreate(tx *gorm.DB) error {
	if pp.ID == "" {
		pp.ID = uuid.NewString()
	}
	return nil
}
