package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots the menu item name and price at order time so later
// menu edits never rewrite order history.
type OrderItem struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	MenuItemID *string   `gorm:"type:varchar(36)" json:"menu_item_id,omitempty"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:SET NULL" json:"-"`
	ItemName   string    `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemPrice  float64   `gorm:"type:decimal(10,2);not null" json:"item_price"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	Subtotal   float64   `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	// Status tracks the single line on the kitchen display, independent of
	// the order level status: pending, ready, completed or cancelled.
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}
