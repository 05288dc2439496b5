package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dineflow/dineflow/live"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TableController struct {
	DB          *gorm.DB
	TableStatus *services.TableStatusService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		DB:          db,
		TableStatus: services.NewTableStatusService(db),
	}
}

// CreateTable -> add a table and bake its QR ordering URL
func (tc *TableController) CreateTable(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		Name       string `json:"name" binding:"required"`
		Identifier string `json:"identifier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Name
	}
	identifier = utils.GenerateSlug(identifier)
	if identifier == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table identifier required"))
		return
	}

	var tenant models.Tenant
	if err := tc.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table := models.RestaurantTable{
		TenantID:      tenantID,
		Name:          req.Name,
		Identifier:    identifier,
		QRUrl:         utils.GenerateQRURL(tenant.Slug, identifier),
		CurrentStatus: services.TableAvailable,
		IsActive:      true,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "Duplicate") {
			utils.RespondError(c, http.StatusConflict, errors.New("table identifier already in use"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastToTenant(tenantID, live.Message{
		Event: live.EventTableUpdate,
		Data:  table,
	})

	utils.InfoLogger.Printf("Table %s (%s) created for tenant %s", table.Name, table.Identifier, tenantID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.RestaurantTable
	err := tc.DB.Where("tenant_id = ?", c.Param("tenant_id")).
		Order("name ASC").
		Find(&tables).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableStatus -> live floor view with per-table order buckets
func (tc *TableController) GetTableStatus(c *gin.Context) {
	summaries, err := tc.TableStatus.StatusForTenant(c.Param("tenant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status", summaries)
}

// RefreshTableCounts -> force a recompute of the cached occupancy columns
func (tc *TableController) RefreshTableCounts(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	if err := tc.TableStatus.RefreshCounts(tenantID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	summaries, err := tc.TableStatus.StatusForTenant(tenantID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table counts refreshed", summaries)
}

// UpdateTable -> rename or deactivate a table
func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.RestaurantTable
	err := tc.DB.Where("id = ? AND tenant_id = ?", c.Param("table_id"), c.Param("tenant_id")).
		First(&table).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.RestaurantTable
	err := tc.DB.Where("id = ? AND tenant_id = ?", c.Param("table_id"), c.Param("tenant_id")).
		First(&table).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastToTenant(table.TenantID, live.Message{
		Event: live.EventTableUpdate,
		Data:  gin.H{"table_id": table.ID, "deleted": true},
	})

	utils.InfoLogger.Printf("Table %s deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}
