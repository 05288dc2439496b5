package services

import (
	"time"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/repository"
	"github.com/dineflow/dineflow/utils"
	"gorm.io/gorm"
)

// Aging levels, ordered fresh < warning < critical.
const (
	AgingFresh    = "fresh"
	AgingWarning  = "warning"
	AgingCritical = "critical"
)

type Thresholds struct {
	WarningMinutes  int `json:"warning_minutes"`
	CriticalMinutes int `json:"critical_minutes"`
}

var DefaultThresholds = Thresholds{WarningMinutes: 5, CriticalMinutes: 20}

// ClassifyAging buckets an order by whole minutes elapsed since its last
// status change. Elapsed time is floored, so an order turns "warning"
// exactly when the warning minute completes.
func ClassifyAging(statusChangedAt, now time.Time, t Thresholds) (level string, minutes int) {
	elapsed := now.Sub(statusChangedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes = int(elapsed.Minutes())

	switch {
	case minutes >= t.CriticalMinutes:
		return AgingCritical, minutes
	case minutes >= t.WarningMinutes:
		return AgingWarning, minutes
	default:
		return AgingFresh, minutes
	}
}

type AgingService struct {
	db         *gorm.DB
	thresholds *repository.Repository[models.AgingThreshold]
	orders     *repository.Repository[models.Order]
}

func NewAgingService(db *gorm.DB) *AgingService {
	return &AgingService{
		db:         db,
		thresholds: repository.New[models.AgingThreshold](db),
		orders:     repository.New[models.Order](db),
	}
}

// ThresholdsFor returns the tenant's configured thresholds, falling back to
// the defaults when the tenant never set any.
func (s *AgingService) ThresholdsFor(tenantID string) (Thresholds, error) {
	row, err := s.thresholds.GetByID(models.AgingThresholdID(tenantID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return DefaultThresholds, nil
		}
		return Thresholds{}, err
	}
	return Thresholds{WarningMinutes: row.WarningMinutes, CriticalMinutes: row.CriticalMinutes}, nil
}

// UpdateThresholds upserts the tenant row under its deterministic ID.
func (s *AgingService) UpdateThresholds(tenantID string, t Thresholds) error {
	if t.WarningMinutes <= 0 || t.CriticalMinutes <= t.WarningMinutes {
		return ErrInvalidThresholds
	}

	id := models.AgingThresholdID(tenantID)
	if _, err := s.thresholds.GetByID(id); err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return s.thresholds.Insert(&models.AgingThreshold{
			ID:              id,
			TenantID:        tenantID,
			WarningMinutes:  t.WarningMinutes,
			CriticalMinutes: t.CriticalMinutes,
		})
	}

	return s.thresholds.Update(id, map[string]interface{}{
		"warning_minutes":  t.WarningMinutes,
		"critical_minutes": t.CriticalMinutes,
	})
}

// OrderAging is an order annotated with its live aging classification.
type OrderAging struct {
	models.Order
	MinutesElapsed int    `json:"minutes_elapsed"`
	CurrentLevel   string `json:"current_level"`
}

// ActiveOrdersWithAging classifies every active order of the tenant
// against its thresholds, oldest first.
func (s *AgingService) ActiveOrdersWithAging(tenantID string) ([]OrderAging, error) {
	t, err := s.ThresholdsFor(tenantID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = s.db.Where("tenant_id = ? AND status IN ?", tenantID, activeStatuses()).
		Order("status_changed_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := make([]OrderAging, 0, len(orders))
	for _, o := range orders {
		level, minutes := ClassifyAging(o.StatusChangedAt, now, t)
		result = append(result, OrderAging{Order: o, MinutesElapsed: minutes, CurrentLevel: level})
	}
	return result, nil
}

// RefreshTenant persists the current aging level of every active order
// and returns the orders whose level changed.
func (s *AgingService) RefreshTenant(tenantID string) ([]OrderAging, error) {
	annotated, err := s.ActiveOrdersWithAging(tenantID)
	if err != nil {
		return nil, err
	}

	var changed []OrderAging
	for _, oa := range annotated {
		if oa.CurrentLevel == oa.AgingLevel {
			continue
		}
		err := s.orders.Update(oa.ID, map[string]interface{}{
			"aging_level": oa.CurrentLevel,
		})
		if err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("Order %s aging %s -> %s (%dm)",
			oa.ID, oa.AgingLevel, oa.CurrentLevel, oa.MinutesElapsed)
		oa.AgingLevel = oa.CurrentLevel
		changed = append(changed, oa)
	}
	return changed, nil
}
