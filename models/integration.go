package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Integration stores per-tenant aggregator hookups (zomato, swiggy).
type Integration struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_integration_tenant_service" json:"tenant_id"`
	Tenant    Tenant    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	Service   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_integration_tenant_service" json:"service"`
	APIKey    string    `gorm:"type:varchar(255)" json:"-"`
	Settings  string    `gorm:"type:text" json:"settings"` // raw JSON blob
	IsEnabled bool      `gorm:"not null;default:false" json:"is_enabled"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (i *Integration) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
