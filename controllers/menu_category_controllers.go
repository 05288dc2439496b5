package controllers

import (
	"net/http"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	err := mcc.DB.Where("tenant_id = ?", c.Param("tenant_id")).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		TenantID:  c.Param("tenant_id"),
		Name:      body.Name,
		SortOrder: body.SortOrder,
		IsActive:  true,
	}
	if err := mcc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	var category models.MenuCategory
	err := mcc.DB.Where("id = ? AND tenant_id = ?", c.Param("cat_id"), c.Param("tenant_id")).
		First(&category).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		category.Name = *body.Name
	}
	if body.SortOrder != nil {
		category.SortOrder = *body.SortOrder
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := mcc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory -> items under it fall back to uncategorized
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	catID := c.Param("cat_id")

	err := mcc.DB.Where("id = ? AND tenant_id = ?", catID, c.Param("tenant_id")).
		Delete(&models.MenuCategory{}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": catID})
}
