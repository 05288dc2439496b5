package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order sources. Table orders come from a QR scan at a physical table,
// the other two arrive through aggregator integrations.
const (
	SourceTable  = "table"
	SourceZomato = "zomato"
	SourceSwiggy = "swiggy"
)

type Order struct {
	ID              string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID        string           `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Tenant          Tenant           `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	TableID         *string          `gorm:"type:varchar(36);index" json:"table_id,omitempty"`
	Table           *RestaurantTable `gorm:"foreignKey:TableID;constraint:OnDelete:SET NULL" json:"table,omitempty"`
	TableIdentifier string           `gorm:"type:varchar(100)" json:"table_identifier"`
	CustomerName    string           `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone   string           `gorm:"type:varchar(50)" json:"customer_phone"`
	SourceType      string           `gorm:"type:varchar(20);not null;default:'table'" json:"source_type"`
	// SourceReference holds the table identifier for table orders and the
	// aggregator's own order id for zomato and swiggy orders.
	SourceReference string `gorm:"type:varchar(100)" json:"source_reference"`
	Status          string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// StatusChangedAt is stamped on every status write, it anchors the
	// aging clock and the table overdue check.
	StatusChangedAt time.Time   `gorm:"not null" json:"status_changed_at"`
	AgingLevel      string      `gorm:"type:varchar(20);not null;default:'fresh'" json:"aging_level"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   string      `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentOrderID  string      `gorm:"type:varchar(100);index" json:"payment_order_id"`
	PaymentID       string      `gorm:"type:varchar(100)" json:"payment_id"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	TaxAmount       float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax_amount"`
	DiscountAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount_amount"`
	Notes           string      `gorm:"type:text" json:"notes"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.StatusChangedAt.IsZero() {
		o.StatusChangedAt = time.Now().UTC()
	}
	return nil
}
