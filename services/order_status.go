package services

import (
	"fmt"
	"time"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/repository"
	"github.com/dineflow/dineflow/utils"
	"gorm.io/gorm"
)

// Order lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCooking   = "cooking"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// statusSuccessor maps each status to its single forward successor.
// Cancellation is handled separately: any non-terminal status may cancel.
var statusSuccessor = map[string]string{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusCooking,
	StatusCooking:   StatusReady,
	StatusReady:     StatusServed,
	StatusServed:    StatusCompleted,
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// IsActiveStatus reports whether an order still occupies its table.
// Served orders are off the table but not yet settled, so they do not count.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCooking, StatusReady:
		return true
	}
	return false
}

// CanTransition validates a single step of the order lifecycle.
// Re-setting the current status is allowed on non-terminal orders, the
// kitchen uses it to restart the aging clock on a re-fired dish.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	if from == to {
		return true
	}
	return statusSuccessor[from] == to
}

type OrderStatusService struct {
	db     *gorm.DB
	orders *repository.Repository[models.Order]
}

func NewOrderStatusService(db *gorm.DB) *OrderStatusService {
	return &OrderStatusService{
		db:     db,
		orders: repository.New[models.Order](db),
	}
}

// Transition moves an order to newStatus, stamping status_changed_at on
// every write so the aging clock always restarts, same-status re-sets
// included.
func (s *OrderStatusService) Transition(orderID, newStatus string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !CanTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	now := time.Now().UTC()
	err = s.orders.Update(orderID, map[string]interface{}{
		"status":            newStatus,
		"status_changed_at": now,
		"aging_level":       AgingFresh,
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s status %s -> %s", orderID, order.Status, newStatus)

	order.Status = newStatus
	order.StatusChangedAt = now
	order.AgingLevel = AgingFresh
	return order, nil
}
