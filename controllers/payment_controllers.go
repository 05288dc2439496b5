package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dineflow/dineflow/live"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
	Email    *services.EmailService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		Payments: services.NewPaymentService(db),
		Email:    services.NewEmailService(db),
	}
}

// CreateGatewayOrder -> the QR checkout page asks for a Razorpay order
// before opening the payment widget.
func (pc *PaymentController) CreateGatewayOrder(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	gatewayOrder, keyID, err := pc.Payments.CreateGatewayOrder(req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrPaymentNotConfigured):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Gateway order created", gin.H{
		"gateway_order_id": gatewayOrder.ID,
		"amount":           gatewayOrder.Amount,
		"currency":         gatewayOrder.Currency,
		"key_id":           keyID,
	})
}

// VerifyPayment -> the checkout widget returns a signature for us to check
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Payments.VerifyPayment(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidSignature):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrPaymentNotConfigured):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	live.BroadcastToTenant(order.TenantID, live.Message{
		Event: live.EventPaymentUpdate,
		Data:  order,
	})

	utils.RespondJSON(c, http.StatusOK, "Payment verified", order)
}

// HandleWebhook -> Razorpay server-to-server delivery. Always acknowledged
// with 200 unless the signature check fails, so the gateway stops retrying
// events we have already absorbed.
func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Payments.HandleWebhook(body, c.GetHeader("X-Razorpay-Signature"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.ErrorLogger.Printf("Webhook processing error: %v", err)
		// Acknowledge anyway, a retry will not fare better.
		utils.RespondJSON(c, http.StatusOK, "acknowledged", nil)
		return
	}

	if order != nil {
		live.BroadcastToTenant(order.TenantID, live.Message{
			Event: live.EventPaymentUpdate,
			Data:  order,
		})

		if order.PaymentStatus == services.PaymentCompleted {
			var tenant models.Tenant
			if err := pc.DB.First(&tenant, "id = ?", order.TenantID).Error; err == nil {
				var items []models.OrderItem
				pc.DB.Where("order_id = ?", order.ID).Find(&items)
				pc.Email.NotifyAsync(&tenant, order, items)
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "acknowledged", nil)
}
