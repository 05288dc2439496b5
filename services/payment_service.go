package services

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/repository"
	"github.com/dineflow/dineflow/utils"
	"gorm.io/gorm"
)

// Payment statuses. "paid" shows up in older rows and aggregator payloads
// and normalizes to PaymentCompleted.
const (
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)

// Payment methods recorded on the order.
const (
	MethodCash     = "cash"
	MethodRazorpay = "razorpay"
)

// paymentStatusRank orders statuses so a webhook can never walk a payment
// backwards: a late "failed" does not undo "completed", a replayed event is
// a no-op, and "refunded" may follow "completed".
var paymentStatusRank = map[string]int{
	PaymentPending:   0,
	PaymentFailed:    1,
	PaymentCompleted: 2,
	PaymentRefunded:  3,
}

func NormalizePaymentStatus(status string) string {
	if status == "paid" {
		return PaymentCompleted
	}
	return status
}

// webhookEventStatus maps Razorpay webhook events to payment statuses.
// Unknown events are acknowledged and dropped.
var webhookEventStatus = map[string]string{
	"payment.authorized": PaymentCompleted,
	"payment.captured":   PaymentCompleted,
	"payment.failed":     PaymentFailed,
	"payment.refunded":   PaymentRefunded,
}

type PaymentService struct {
	db        *gorm.DB
	providers *repository.Repository[models.PaymentProvider]
	orders    *repository.Repository[models.Order]

	// NewClient is swapped out in tests to point at a stub gateway.
	NewClient func(keyID, keySecret string) *RazorpayClient
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{
		db:        db,
		providers: repository.New[models.PaymentProvider](db),
		orders:    repository.New[models.Order](db),
		NewClient: NewRazorpayClient,
	}
}

// ProviderFor returns the tenant's enabled Razorpay configuration.
func (s *PaymentService) ProviderFor(tenantID string) (*models.PaymentProvider, error) {
	provider, err := s.providers.First(map[string]interface{}{
		"tenant_id": tenantID,
		"provider":  MethodRazorpay,
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotConfigured
		}
		return nil, err
	}
	if !provider.IsEnabled || provider.KeyID == "" || provider.KeySecret == "" {
		return nil, ErrPaymentNotConfigured
	}
	return provider, nil
}

// CreateGatewayOrder registers the order with Razorpay and stores the
// returned gateway order id on our order. Amounts go out in paise.
func (s *PaymentService) CreateGatewayOrder(orderID string) (*RazorpayOrder, string, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrOrderNotFound
		}
		return nil, "", err
	}

	provider, err := s.ProviderFor(order.TenantID)
	if err != nil {
		return nil, "", err
	}

	amountPaise := int64(math.Round(order.TotalAmount * 100))
	receipt := "order_" + order.ID

	client := s.NewClient(provider.KeyID, provider.KeySecret)
	gatewayOrder, err := client.CreateOrder(amountPaise, "INR", receipt)
	if err != nil {
		return nil, "", err
	}

	err = s.orders.Update(order.ID, map[string]interface{}{
		"payment_order_id": gatewayOrder.ID,
		"payment_method":   MethodRazorpay,
	})
	if err != nil {
		return nil, "", err
	}

	utils.InfoLogger.Printf("Gateway order %s created for order %s (%d paise)",
		gatewayOrder.ID, order.ID, amountPaise)
	return gatewayOrder, provider.KeyID, nil
}

// VerifyPayment validates the checkout signature Razorpay handed to the
// customer's browser and marks the order paid.
func (s *PaymentService) VerifyPayment(gatewayOrderID, gatewayPaymentID, signature string) (*models.Order, error) {
	order, err := s.orders.First(map[string]interface{}{
		"payment_order_id": gatewayOrderID,
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	provider, err := s.ProviderFor(order.TenantID)
	if err != nil {
		return nil, err
	}

	if !VerifySignature(gatewayOrderID, gatewayPaymentID, signature, provider.KeySecret) {
		return nil, ErrInvalidSignature
	}

	if _, err := s.applyPaymentStatus(order, PaymentCompleted, gatewayPaymentID); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkCashPayment settles an order at the counter. The same rank rules as
// the webhook path apply, so a refunded order cannot be flipped back to
// completed by a stray cash settle.
func (s *PaymentService) MarkCashPayment(orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	applied, err := s.applyPaymentStatus(order, PaymentCompleted, "")
	if err != nil {
		return nil, err
	}
	if !applied {
		return order, nil
	}

	if err := s.orders.Update(order.ID, map[string]interface{}{
		"payment_method": MethodCash,
	}); err != nil {
		return nil, err
	}
	order.PaymentMethod = MethodCash
	return order, nil
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				RazorpayPaymentID string `json:"razorpay_payment_id"`
				RazorpayOrderID   string `json:"razorpay_order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook reconciles a Razorpay webhook delivery. Unknown events and
// unknown gateway orders are acknowledged without effect so the gateway
// stops retrying; replays are no-ops thanks to the status ranking.
// The returned order is nil when nothing changed.
func (s *PaymentService) HandleWebhook(body []byte, signatureHeader string) (*models.Order, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if payload.Event == "" {
		return nil, fmt.Errorf("webhook event type missing")
	}

	newStatus, known := webhookEventStatus[payload.Event]
	if !known {
		utils.InfoLogger.Printf("Ignoring webhook event %s", payload.Event)
		return nil, nil
	}

	entity := payload.Payload.Payment.Entity
	order, err := s.orders.First(map[string]interface{}{
		"payment_order_id": entity.RazorpayOrderID,
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.InfoLogger.Printf("Webhook for unknown gateway order %s, acknowledging",
				entity.RazorpayOrderID)
			return nil, nil
		}
		return nil, err
	}

	provider, err := s.providers.First(map[string]interface{}{
		"tenant_id": order.TenantID,
		"provider":  MethodRazorpay,
	})
	if err == nil && provider.WebhookSecret != "" {
		if !VerifyWebhookSignature(body, signatureHeader, provider.WebhookSecret) {
			return nil, ErrInvalidSignature
		}
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	applied, err := s.applyPaymentStatus(order, newStatus, entity.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	return order, nil
}

// applyPaymentStatus writes a payment status if and only if it ranks above
// the order's current one. It reports whether anything was written.
func (s *PaymentService) applyPaymentStatus(order *models.Order, newStatus, gatewayPaymentID string) (bool, error) {
	current := NormalizePaymentStatus(order.PaymentStatus)
	if paymentStatusRank[newStatus] <= paymentStatusRank[current] {
		utils.InfoLogger.Printf("Order %s payment already %s, skipping %s",
			order.ID, current, newStatus)
		return false, nil
	}

	fields := map[string]interface{}{
		"payment_status": newStatus,
	}
	if gatewayPaymentID != "" {
		fields["payment_id"] = gatewayPaymentID
	}

	if err := s.orders.Update(order.ID, fields); err != nil {
		return false, err
	}

	utils.InfoLogger.Printf("Order %s payment %s -> %s", order.ID, current, newStatus)
	order.PaymentStatus = newStatus
	if gatewayPaymentID != "" {
		order.PaymentID = gatewayPaymentID
	}
	return true, nil
}
