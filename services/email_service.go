package services

import (
	"fmt"
	"strings"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/repository"
	"github.com/dineflow/dineflow/utils"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type EmailService struct {
	db      *gorm.DB
	configs *repository.Repository[models.EmailConfig]

	// send is replaced in tests so nothing hits SMTP.
	send func(cfg *models.EmailConfig, msg *gomail.Message) error
}

func NewEmailService(db *gorm.DB) *EmailService {
	s := &EmailService{
		db:      db,
		configs: repository.New[models.EmailConfig](db),
	}
	s.send = func(cfg *models.EmailConfig, msg *gomail.Message) error {
		dialer := gomail.NewDialer("smtp.gmail.com", 587, cfg.FromAddress, cfg.AppPassword)
		return dialer.DialAndSend(msg)
	}
	return s
}

// SendOrderNotification mails the restaurant about a new paid or placed
// order. Tenants without an active email config are skipped silently.
func (s *EmailService) SendOrderNotification(tenant *models.Tenant, order *models.Order, items []models.OrderItem) error {
	cfg, err := s.configs.First(map[string]interface{}{"tenant_id": tenant.ID})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !cfg.NotifyOnOrder || cfg.FromAddress == "" {
		return nil
	}

	shortID := order.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.FromAddress)
	msg.SetHeader("To", cfg.FromAddress)
	msg.SetHeader("Subject", fmt.Sprintf("New Order - %s (Order #%s)", tenant.Name, shortID))
	msg.SetBody("text/html", buildOrderEmail(tenant.Name, shortID, order, items))

	return s.send(cfg, msg)
}

// NotifyAsync fires the notification on a goroutine, order placement never
// waits on SMTP.
func (s *EmailService) NotifyAsync(tenant *models.Tenant, order *models.Order, items []models.OrderItem) {
	go func() {
		if err := s.SendOrderNotification(tenant, order, items); err != nil {
			utils.ErrorLogger.Printf("Order email for tenant %s failed: %v", tenant.ID, err)
		}
	}()
}

func buildOrderEmail(restaurantName, shortID string, order *models.Order, items []models.OrderItem) string {
	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(
			"<tr><td style=\"padding:8px;\">%s</td><td style=\"padding:8px;text-align:center;\">%d</td><td style=\"padding:8px;text-align:right;\">&#8377;%s</td></tr>",
			item.ItemName, item.Quantity, utils.FormatCurrency(item.Subtotal)))
	}

	source := order.SourceType
	if order.TableIdentifier != "" {
		source = "Table " + order.TableIdentifier
	}

	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
<h2>New Order</h2>
<p><strong>Restaurant:</strong> %s</p>
<p><strong>Order ID:</strong> %s</p>
<p><strong>Source:</strong> %s</p>
<p><strong>Status:</strong> %s</p>
<p><strong>Payment:</strong> %s</p>
<table style="width:100%%;border-collapse:collapse;">
<thead><tr><th style="text-align:left;">Item</th><th>Qty</th><th style="text-align:right;">Amount</th></tr></thead>
<tbody>%s</tbody>
</table>
<p style="text-align:right;font-size:18px;"><strong>Total: &#8377;%s</strong></p>
</div>`,
		restaurantName, shortID, source, order.Status, order.PaymentStatus,
		rows.String(), utils.FormatCurrency(order.TotalAmount))
}
