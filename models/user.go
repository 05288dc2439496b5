package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleSuperAdmin      = "superadmin"
	RoleRestaurantAdmin = "restaurant_admin"
	RoleKitchenStaff    = "kitchen_staff"
	RoleCashier         = "cashier"
)

type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  *string   `gorm:"type:varchar(36);index" json:"tenant_id,omitempty"` // nil for superadmin
	Tenant    *Tenant   `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(50);not null" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
