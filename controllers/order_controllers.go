package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dineflow/dineflow/live"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	DB          *gorm.DB
	Status      *services.OrderStatusService
	TableStatus *services.TableStatusService
	Payments    *services.PaymentService
	Email       *services.EmailService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:          db,
		Status:      services.NewOrderStatusService(db),
		TableStatus: services.NewTableStatusService(db),
		Payments:    services.NewPaymentService(db),
		Email:       services.NewEmailService(db),
	}
}

// GetPublicMenu -> menu behind a table QR code, no auth
func (oc *OrderController) GetPublicMenu(c *gin.Context) {
	tenant, table, ok := oc.resolveQRTarget(c)
	if !ok {
		return
	}

	var categories []models.MenuCategory
	err := oc.DB.Where("tenant_id = ? AND is_active = ?", tenant.ID, true).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type categoryWithItems struct {
		models.MenuCategory
		Items []models.MenuItem `json:"items"`
	}

	result := make([]categoryWithItems, 0, len(categories))
	for _, cat := range categories {
		var items []models.MenuItem
		err := oc.DB.Where("tenant_id = ? AND category_id = ? AND is_available = ?",
			tenant.ID, cat.ID, true).
			Order("name ASC").
			Find(&items).Error
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		result = append(result, categoryWithItems{MenuCategory: cat, Items: items})
	}

	utils.RespondJSON(c, http.StatusOK, "Public menu", gin.H{
		"restaurant": gin.H{
			"id":      tenant.ID,
			"name":    tenant.Name,
			"address": tenant.Address,
			"phone":   tenant.Phone,
		},
		"table": gin.H{
			"id":         table.ID,
			"name":       table.Name,
			"identifier": table.Identifier,
		},
		"categories": result,
	})
}

// CreatePublicOrder -> a guest places an order from the table QR page.
// Item names and prices are snapshotted so later menu edits never change
// what was ordered.
func (oc *OrderController) CreatePublicOrder(c *gin.Context) {
	tenant, table, ok := oc.resolveQRTarget(c)
	if !ok {
		return
	}

	var req struct {
		Items []struct {
			MenuItemID string `json:"menu_item_id" binding:"required"`
			Quantity   int    `json:"quantity"`
			Notes      string `json:"notes"`
		} `json:"items" binding:"required"`
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		PaymentMethod string `json:"payment_method"` // "online" or "cash"
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order items are required"))
		return
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		var menuItem models.MenuItem
		err := oc.DB.Where("id = ? AND tenant_id = ?", line.MenuItemID, tenant.ID).
			First(&menuItem).Error
		if err != nil || !menuItem.IsAvailable {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("menu item %s is not available", line.MenuItemID))
			return
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}

		subtotal := menuItem.Price * float64(qty)
		itemID := menuItem.ID
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: &itemID,
			ItemName:   menuItem.Name,
			ItemPrice:  menuItem.Price,
			Quantity:   qty,
			Subtotal:   subtotal,
			Notes:      utils.SanitizeString(line.Notes),
		})
		total += subtotal
	}

	method := services.MethodCash
	if req.PaymentMethod == "online" {
		method = services.MethodRazorpay
	}

	order := models.Order{
		TenantID:        tenant.ID,
		TableID:         &table.ID,
		TableIdentifier: table.Identifier,
		CustomerName:    utils.SanitizeString(req.CustomerName),
		CustomerPhone:   utils.SanitizeString(req.CustomerPhone),
		SourceType:      models.SourceTable,
		SourceReference: table.Identifier,
		Status:          services.StatusPending,
		PaymentStatus:   services.PaymentPending,
		PaymentMethod:   method,
		TotalAmount:     total,
		Notes:           utils.SanitizeString(req.Notes),
		Items:           orderItems,
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.TableStatus.RefreshCounts(tenant.ID); err != nil {
		utils.ErrorLogger.Printf("Table count refresh after order %s failed: %v", order.ID, err)
	}

	oc.Email.NotifyAsync(tenant, &order, order.Items)

	live.BroadcastToTenant(tenant.ID, live.Message{
		Event: live.EventOrderCreated,
		Data:  order,
	})

	utils.InfoLogger.Printf("Order %s created for tenant %s, table %s, total %.2f",
		order.ID, tenant.ID, table.Identifier, total)
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

// GetPublicOrder -> the guest polls their order from the QR page
func (oc *OrderController) GetPublicOrder(c *gin.Context) {
	tenant, ok := oc.resolveTenantBySlug(c)
	if !ok {
		return
	}

	var order models.Order
	err := oc.DB.Where("id = ? AND tenant_id = ?", c.Param("order_id"), tenant.ID).
		Preload("Items").
		First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> staff view with optional status and payment filters
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Where("tenant_id = ?", c.Param("tenant_id"))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source_type"); source != "" {
		query = query.Where("source_type = ?", source)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var orders []models.Order
	if err := query.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	err := oc.DB.Where("id = ? AND tenant_id = ?", c.Param("order_id"), c.Param("tenant_id")).
		Preload("Items").
		First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus walks the order lifecycle one step (or cancels), then
// recomputes the tenant's table occupancy.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Scope check before the transition so cross-tenant IDs read as 404.
	var existing models.Order
	err := oc.DB.Where("id = ? AND tenant_id = ?", orderID, tenantID).First(&existing).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order, err := oc.Status.Transition(orderID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.TableStatus.RefreshCounts(tenantID); err != nil {
		utils.ErrorLogger.Printf("Table count refresh after order %s failed: %v", orderID, err)
	}

	live.BroadcastToTenant(tenantID, live.Message{
		Event: live.EventOrderUpdate,
		Data:  order,
	})

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// orderItemStatuses is the allow list for kitchen display line updates.
var orderItemStatuses = map[string]bool{
	"pending":   true,
	"ready":     true,
	"completed": true,
	"cancelled": true,
}

// UpdateOrderItemStatus -> kitchen marks a single line ready or done
// without moving the whole order.
func (oc *OrderController) UpdateOrderItemStatus(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !orderItemStatuses[req.Status] {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("unknown order item status %q", req.Status))
		return
	}

	var order models.Order
	err := oc.DB.Where("id = ? AND tenant_id = ?", c.Param("order_id"), tenantID).
		First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var item models.OrderItem
	err = oc.DB.Where("id = ? AND order_id = ?", c.Param("item_id"), order.ID).
		First(&item).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := oc.DB.Model(&item).Update("status", req.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	item.Status = req.Status

	live.BroadcastToTenant(tenantID, live.Message{
		Event: live.EventOrderUpdate,
		Data:  gin.H{"order_id": order.ID, "item": item},
	})

	utils.RespondJSON(c, http.StatusOK, "Order item status updated", item)
}

// MarkCashPaid -> cashier settles an order at the counter
func (oc *OrderController) MarkCashPaid(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	orderID := c.Param("order_id")

	var existing models.Order
	err := oc.DB.Where("id = ? AND tenant_id = ?", orderID, tenantID).First(&existing).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order, err := oc.Payments.MarkCashPayment(orderID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastToTenant(tenantID, live.Message{
		Event: live.EventPaymentUpdate,
		Data:  order,
	})

	utils.RespondJSON(c, http.StatusOK, "Order marked as paid", order)
}

func (oc *OrderController) resolveTenantBySlug(c *gin.Context) (*models.Tenant, bool) {
	var tenant models.Tenant
	err := oc.DB.Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		First(&tenant).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return nil, false
	}
	return &tenant, true
}

func (oc *OrderController) resolveQRTarget(c *gin.Context) (*models.Tenant, *models.RestaurantTable, bool) {
	tenant, ok := oc.resolveTenantBySlug(c)
	if !ok {
		return nil, nil, false
	}

	var table models.RestaurantTable
	err := oc.DB.Where("tenant_id = ? AND identifier = ? AND is_active = ?",
		tenant.ID, c.Param("table_identifier"), true).
		First(&table).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return nil, nil, false
	}
	return tenant, &table, true
}
