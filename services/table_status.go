package services

import (
	"time"

	"github.com/dineflow/dineflow/models"
	"gorm.io/gorm"
)

// Table occupancy statuses derived from the orders parked on a table.
const (
	TableAvailable        = "available"
	TableOccupied         = "occupied"
	TablePendingOrders    = "pending_orders"
	TableReadyOrders      = "ready_orders"
	TableProcessingOrders = "processing_orders"
)

// overdueAfter flags a table when its oldest active order has been stuck
// past this long, independent of the tenant's aging thresholds.
const overdueAfter = 20 * time.Minute

// TableStatusSummary is one floor-view row per table.
type TableStatusSummary struct {
	TableID          string     `json:"table_id"`
	Name             string     `json:"name"`
	Identifier       string     `json:"identifier"`
	QRUrl            string     `json:"qr_url"`
	Status           string     `json:"status"`
	StatusColor      string     `json:"status_color"`
	StatusIcon       string     `json:"status_icon"`
	ActiveOrders     int        `json:"active_orders"`
	PendingOrders    int        `json:"pending_orders"`
	ProcessingOrders int        `json:"processing_orders"`
	ReadyOrders      int        `json:"ready_orders"`
	LatestOrderTime  *time.Time `json:"latest_order_time,omitempty"`
	HasOverdue       bool       `json:"has_overdue"`
}

type TableStatusService struct {
	db *gorm.DB
}

func NewTableStatusService(db *gorm.DB) *TableStatusService {
	return &TableStatusService{db: db}
}

// StatusForTenant aggregates the tenant's active orders into one summary
// per active table. Waiting-to-confirm beats ready-to-serve beats cooking
// when a table holds a mix.
func (s *TableStatusService) StatusForTenant(tenantID string) ([]TableStatusSummary, error) {
	var tables []models.RestaurantTable
	err := s.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = s.db.Where("tenant_id = ? AND table_id IS NOT NULL AND status IN ?",
		tenantID, activeStatuses()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		pending, processing, ready int
		latest                     time.Time
		oldest                     time.Time
	}
	byTable := make(map[string]*bucket)
	for _, o := range orders {
		b := byTable[*o.TableID]
		if b == nil {
			b = &bucket{oldest: o.StatusChangedAt}
			byTable[*o.TableID] = b
		}
		switch o.Status {
		case StatusPending:
			b.pending++
		case StatusConfirmed, StatusCooking:
			b.processing++
		case StatusReady:
			b.ready++
		}
		if o.CreatedAt.After(b.latest) {
			b.latest = o.CreatedAt
		}
		if o.StatusChangedAt.Before(b.oldest) {
			b.oldest = o.StatusChangedAt
		}
	}

	now := time.Now().UTC()
	summaries := make([]TableStatusSummary, 0, len(tables))
	for _, t := range tables {
		row := TableStatusSummary{
			TableID:    t.ID,
			Name:       t.Name,
			Identifier: t.Identifier,
			QRUrl:      t.QRUrl,
			Status:     TableAvailable,
		}
		row.StatusColor, row.StatusIcon = statusHints(row.Status)

		if b, ok := byTable[t.ID]; ok {
			row.PendingOrders = b.pending
			row.ProcessingOrders = b.processing
			row.ReadyOrders = b.ready
			row.ActiveOrders = b.pending + b.processing + b.ready
			latest := b.latest
			row.LatestOrderTime = &latest
			row.HasOverdue = now.Sub(b.oldest) > overdueAfter

			switch {
			case b.pending > 0:
				row.Status = TablePendingOrders
			case b.ready > 0:
				row.Status = TableReadyOrders
			default:
				row.Status = TableProcessingOrders
			}
			row.StatusColor, row.StatusIcon = statusHints(row.Status)
		}

		summaries = append(summaries, row)
	}
	return summaries, nil
}

// RefreshCounts persists the denormalized active_orders_count and
// current_status columns for every table of the tenant.
func (s *TableStatusService) RefreshCounts(tenantID string) error {
	var tables []models.RestaurantTable
	err := s.db.Where("tenant_id = ?", tenantID).Find(&tables).Error
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			var count int64
			err := tx.Model(&models.Order{}).
				Where("table_id = ? AND status IN ?", t.ID, activeStatuses()).
				Count(&count).Error
			if err != nil {
				return err
			}

			status := TableAvailable
			if count > 0 {
				status = TableOccupied
			}

			err = tx.Model(&models.RestaurantTable{}).
				Where("id = ?", t.ID).
				Updates(map[string]interface{}{
					"active_orders_count": count,
					"current_status":      status,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func activeStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCooking, StatusReady}
}

// statusHints gives the dashboard a color and icon per table status.
func statusHints(status string) (color, icon string) {
	switch status {
	case TablePendingOrders:
		return "yellow", "clock"
	case TableReadyOrders:
		return "green", "check-circle"
	case TableProcessingOrders:
		return "blue", "cooking"
	default:
		return "gray", "circle"
	}
}
