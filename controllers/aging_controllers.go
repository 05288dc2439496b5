package controllers

import (
	"errors"
	"net/http"

	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AgingController struct {
	DB    *gorm.DB
	Aging *services.AgingService
}

func NewAgingController(db *gorm.DB) *AgingController {
	return &AgingController{
		DB:    db,
		Aging: services.NewAgingService(db),
	}
}

// GetAgingOrders -> live kitchen view, oldest orders first with their level
func (ac *AgingController) GetAgingOrders(c *gin.Context) {
	orders, err := ac.Aging.ActiveOrdersWithAging(c.Param("tenant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders with aging", orders)
}

// GetThresholds
func (ac *AgingController) GetThresholds(c *gin.Context) {
	t, err := ac.Aging.ThresholdsFor(c.Param("tenant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Aging thresholds", t)
}

// UpdateThresholds
func (ac *AgingController) UpdateThresholds(c *gin.Context) {
	var req services.Thresholds
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := c.Param("tenant_id")
	if err := ac.Aging.UpdateThresholds(tenantID, req); err != nil {
		if errors.Is(err, services.ErrInvalidThresholds) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Aging thresholds for tenant %s set to (%d, %d)",
		tenantID, req.WarningMinutes, req.CriticalMinutes)
	utils.RespondJSON(c, http.StatusOK, "Thresholds updated", req)
}
