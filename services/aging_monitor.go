package services

import (
	"time"

	"github.com/dineflow/dineflow/live"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"gorm.io/gorm"
)

// AgingMonitor periodically re-classifies active orders for every active
// tenant and refreshes the denormalized table counts.
type AgingMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration

	aging  *AgingService
	tables *TableStatusService
}

func NewAgingMonitor(db *gorm.DB) *AgingMonitor {
	return &AgingMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
		aging:    NewAgingService(db),
		tables:   NewTableStatusService(db),
	}
}

func (m *AgingMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *AgingMonitor) Stop() {
	close(m.StopChan)
}

func (m *AgingMonitor) sweep() {
	var tenantIDs []string
	err := m.DB.Model(&models.Tenant{}).
		Where("is_active = ?", true).
		Pluck("id", &tenantIDs).Error
	if err != nil {
		utils.ErrorLogger.Printf("Aging sweep: listing tenants failed: %v", err)
		return
	}

	for _, tenantID := range tenantIDs {
		changed, err := m.aging.RefreshTenant(tenantID)
		if err != nil {
			utils.ErrorLogger.Printf("Aging sweep for tenant %s failed: %v", tenantID, err)
			continue
		}
		if len(changed) > 0 {
			live.BroadcastToTenant(tenantID, live.Message{
				Event: live.EventAgingUpdate,
				Data:  changed,
			})
		}

		if err := m.tables.RefreshCounts(tenantID); err != nil {
			utils.ErrorLogger.Printf("Table count refresh for tenant %s failed: %v", tenantID, err)
		}
	}
}
