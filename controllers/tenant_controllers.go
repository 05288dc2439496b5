package controllers

import (
	"errors"
	"net/http"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TenantController struct {
	DB *gorm.DB
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{DB: db}
}

// defaultCategories seeds every new restaurant's menu skeleton.
var defaultCategories = []struct {
	Name      string
	SortOrder int
}{
	{"Starters", 0},
	{"Main Course", 1},
	{"Desserts", 2},
	{"Drinks", 3},
}

// CreateTenant -> provision a restaurant with its admin account and
// default menu categories in one transaction.
func (tc *TenantController) CreateTenant(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Address       string `json:"address"`
		Phone         string `json:"phone"`
		Email         string `json:"email"`
		AdminName     string `json:"admin_name" binding:"required"`
		AdminEmail    string `json:"admin_email" binding:"required,email"`
		AdminPassword string `json:"admin_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.User
	if err := tc.DB.Where("email = ?", req.AdminEmail).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("user with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tenant := models.Tenant{
		Name:     req.Name,
		Slug:     utils.GenerateSlug(req.Name),
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}

	var admin models.User
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		admin = models.User{
			TenantID: &tenant.ID,
			Name:     req.AdminName,
			Email:    req.AdminEmail,
			Password: string(hashed),
			Role:     models.RoleRestaurantAdmin,
			IsActive: true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		for _, cat := range defaultCategories {
			category := models.MenuCategory{
				TenantID:  tenant.ID,
				Name:      cat.Name,
				SortOrder: cat.SortOrder,
				IsActive:  true,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
		}

		threshold := models.AgingThreshold{
			ID:              models.AgingThresholdID(tenant.ID),
			TenantID:        tenant.ID,
			WarningMinutes:  5,
			CriticalMinutes: 20,
		}
		return tx.Create(&threshold).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %s (%s) provisioned with admin %s",
		tenant.Name, tenant.Slug, admin.Email)

	utils.RespondJSON(c, http.StatusCreated, "Tenant created", gin.H{
		"tenant_id":   tenant.ID,
		"slug":        tenant.Slug,
		"admin_id":    admin.ID,
		"admin_email": admin.Email,
	})
}

// GetAllTenants lists active tenants. Deactivated ones only show up when
// ?include_inactive=true is passed.
func (tc *TenantController) GetAllTenants(c *gin.Context) {
	query := tc.DB.Order("created_at ASC")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var tenants []models.Tenant
	if err := query.Find(&tenants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All tenants", tenants)
}

// GetTenantByID
func (tc *TenantController) GetTenantByID(c *gin.Context) {
	var tenant models.Tenant
	if err := tc.DB.First(&tenant, "id = ?", c.Param("tenant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tenant detail", tenant)
}

// UpdateTenant -> rename or (de)activate a restaurant
func (tc *TenantController) UpdateTenant(c *gin.Context) {
	var tenant models.Tenant
	if err := tc.DB.First(&tenant, "id = ?", c.Param("tenant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Email != nil {
		tenant.Email = *req.Email
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %s updated (active=%t)", tenant.ID, tenant.IsActive)
	utils.RespondJSON(c, http.StatusOK, "Tenant updated", tenant)
}

// DeleteTenant -> cascades to the tenant's users, tables, menu and orders
func (tc *TenantController) DeleteTenant(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var tenant models.Tenant
	if err := tc.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %s deleted", tenantID)
	utils.RespondJSON(c, http.StatusOK, "Tenant deleted", gin.H{"tenant_id": tenantID})
}
