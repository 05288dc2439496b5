package controllers

import (
	"errors"
	"net/http"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> optionally filtered by category
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Where("tenant_id = ?", c.Param("tenant_id"))
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var items []models.MenuItem
	if err := query.Preload("Category").Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

// CreateMenuItem
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		CategoryID  *string `json:"category_id"`
		ImageURL    string  `json:"image_url"`
		IsVeg       bool    `json:"is_veg"`
		IsSpicy     bool    `json:"is_spicy"`
		Tags        string  `json:"tags"`
		PrepTime    int     `json:"preparation_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CategoryID != nil {
		var category models.MenuCategory
		err := mc.DB.Where("id = ? AND tenant_id = ?", *req.CategoryID, tenantID).
			First(&category).Error
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found for tenant"))
			return
		}
	}

	item := models.MenuItem{
		TenantID:        tenantID,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		IsVeg:           req.IsVeg,
		IsSpicy:         req.IsSpicy,
		Tags:            req.Tags,
		PreparationTime: req.PrepTime,
		IsAvailable:     true,
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item %s created for tenant %s", item.Name, tenantID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuItemByID
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	var item models.MenuItem
	err := mc.DB.Where("id = ? AND tenant_id = ?", c.Param("item_id"), c.Param("tenant_id")).
		Preload("Category").
		First(&item).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem -> price and availability edits never touch past orders,
// order items keep their snapshots.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	err := mc.DB.Where("id = ? AND tenant_id = ?", c.Param("item_id"), c.Param("tenant_id")).
		First(&item).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *string  `json:"category_id"`
		ImageURL    *string  `json:"image_url"`
		IsVeg       *bool    `json:"is_veg"`
		IsSpicy     *bool    `json:"is_spicy"`
		Tags        *string  `json:"tags"`
		PrepTime    *int     `json:"preparation_time"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsVeg != nil {
		item.IsVeg = *req.IsVeg
	}
	if req.IsSpicy != nil {
		item.IsSpicy = *req.IsSpicy
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.PrepTime != nil {
		item.PreparationTime = *req.PrepTime
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> existing order items keep their snapshot, the FK is
// nulled out.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	itemID := c.Param("item_id")

	err := mc.DB.Where("id = ? AND tenant_id = ?", itemID, c.Param("tenant_id")).
		Delete(&models.MenuItem{}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": itemID})
}
