package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID    string        `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Tenant      Tenant        `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *string       `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Category    *MenuCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"price"`
	ImageURL    string        `gorm:"type:text" json:"image_url"`
	IsVeg       bool          `gorm:"not null;default:false" json:"is_veg"`
	IsSpicy     bool          `gorm:"not null;default:false" json:"is_spicy"`
	// Tags is a comma separated list ("bestseller,new") shown as chips on
	// the guest menu.
	Tags            string    `gorm:"type:text" json:"tags"`
	PreparationTime int       `gorm:"not null;default:0" json:"preparation_time"`
	IsAvailable     bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (mi *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if mi.ID == "" {
		mi.ID = uuid.NewString()
	}
	return nil
}
