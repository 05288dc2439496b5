package models

import "time"

// AgingThreshold holds the per-tenant warning/critical boundaries in minutes.
// The row ID is deterministic ("aging_<tenant_id>") so updates are upserts.
type AgingThreshold struct {
	ID              string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	TenantID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"tenant_id"`
	Tenant          Tenant    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	WarningMinutes  int       `gorm:"not null;default:5" json:"warning_minutes"`
	CriticalMinutes int       `gorm:"not null;default:20" json:"critical_minutes"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func AgingThresholdID(tenantID string) string {
	return "aging_" + tenantID
}
