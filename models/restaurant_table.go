package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RestaurantTable struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_tables_tenant_identifier" json:"tenant_id"`
	Tenant     Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Identifier string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tables_tenant_identifier" json:"identifier"`
	QRUrl      string `gorm:"type:text" json:"qr_url"`
	// Derived occupancy fields, maintained by the table status refresher.
	CurrentStatus     string     `gorm:"type:varchar(30);not null;default:'available'" json:"current_status"`
	ActiveOrdersCount int        `gorm:"not null;default:0" json:"active_orders_count"`
	LastOrderTime     *time.Time `json:"last_order_time,omitempty"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

func (t *RestaurantTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
