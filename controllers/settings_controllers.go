package controllers

import (
	"net/http"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsController manages a tenant's payment, aggregator and email
// configuration. Secrets are write-only: responses only reveal whether a
// secret is present.
type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GetPaymentConfig
func (sc *SettingsController) GetPaymentConfig(c *gin.Context) {
	var provider models.PaymentProvider
	err := sc.DB.Where("tenant_id = ? AND provider = ?", c.Param("tenant_id"), services.MethodRazorpay).
		First(&provider).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondJSON(c, http.StatusOK, "Payment config", gin.H{"configured": false})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment config", gin.H{
		"configured":         true,
		"provider":           provider.Provider,
		"key_id":             provider.KeyID,
		"has_key_secret":     provider.KeySecret != "",
		"has_webhook_secret": provider.WebhookSecret != "",
		"is_enabled":         provider.IsEnabled,
	})
}

// UpsertPaymentConfig
func (sc *SettingsController) UpsertPaymentConfig(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		KeyID         string `json:"key_id" binding:"required"`
		KeySecret     string `json:"key_secret"`
		WebhookSecret string `json:"webhook_secret"`
		IsEnabled     *bool  `json:"is_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var provider models.PaymentProvider
	err := sc.DB.Where("tenant_id = ? AND provider = ?", tenantID, services.MethodRazorpay).
		First(&provider).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		provider = models.PaymentProvider{
			TenantID: tenantID,
			Provider: services.MethodRazorpay,
		}
	}

	provider.KeyID = req.KeyID
	if req.KeySecret != "" {
		provider.KeySecret = req.KeySecret
	}
	if req.WebhookSecret != "" {
		provider.WebhookSecret = req.WebhookSecret
	}
	if req.IsEnabled != nil {
		provider.IsEnabled = *req.IsEnabled
	} else {
		provider.IsEnabled = true
	}

	if err := sc.DB.Save(&provider).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Payment config updated for tenant %s (enabled=%t)",
		tenantID, provider.IsEnabled)
	utils.RespondJSON(c, http.StatusOK, "Payment config saved", gin.H{
		"provider":   provider.Provider,
		"key_id":     provider.KeyID,
		"is_enabled": provider.IsEnabled,
	})
}

// GetIntegrations
func (sc *SettingsController) GetIntegrations(c *gin.Context) {
	var integrations []models.Integration
	err := sc.DB.Where("tenant_id = ?", c.Param("tenant_id")).Find(&integrations).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Integrations", integrations)
}

// UpsertIntegration -> zomato/swiggy hookup per tenant
func (sc *SettingsController) UpsertIntegration(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		Service   string `json:"service" binding:"required,oneof=zomato swiggy"`
		APIKey    string `json:"api_key"`
		Settings  string `json:"settings"`
		IsEnabled *bool  `json:"is_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var integration models.Integration
	err := sc.DB.Where("tenant_id = ? AND service = ?", tenantID, req.Service).
		First(&integration).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		integration = models.Integration{
			TenantID: tenantID,
			Service:  req.Service,
		}
	}

	if req.APIKey != "" {
		integration.APIKey = req.APIKey
	}
	if req.Settings != "" {
		integration.Settings = req.Settings
	}
	if req.IsEnabled != nil {
		integration.IsEnabled = *req.IsEnabled
	}

	if err := sc.DB.Save(&integration).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Integration saved", integration)
}

// GetEmailConfig
func (sc *SettingsController) GetEmailConfig(c *gin.Context) {
	var cfg models.EmailConfig
	err := sc.DB.Where("tenant_id = ?", c.Param("tenant_id")).First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondJSON(c, http.StatusOK, "Email config", gin.H{"configured": false})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Email config", gin.H{
		"configured":      true,
		"from_address":    cfg.FromAddress,
		"has_password":    cfg.AppPassword != "",
		"notify_on_order": cfg.NotifyOnOrder,
	})
}

// UpsertEmailConfig
func (sc *SettingsController) UpsertEmailConfig(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		FromAddress   string `json:"from_address" binding:"required,email"`
		AppPassword   string `json:"app_password"`
		NotifyOnOrder *bool  `json:"notify_on_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cfg models.EmailConfig
	err := sc.DB.Where("tenant_id = ?", tenantID).First(&cfg).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		cfg = models.EmailConfig{TenantID: tenantID}
	}

	cfg.FromAddress = req.FromAddress
	if req.AppPassword != "" {
		cfg.AppPassword = req.AppPassword
	}
	if req.NotifyOnOrder != nil {
		cfg.NotifyOnOrder = *req.NotifyOnOrder
	}

	if err := sc.DB.Save(&cfg).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Email config saved", gin.H{
		"from_address":    cfg.FromAddress,
		"notify_on_order": cfg.NotifyOnOrder,
	})
}
