package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// GetDashboardStats -> the numbers on the restaurant admin home screen
func (rc *ReportController) GetDashboardStats(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	todayStart := time.Now().UTC().Truncate(24 * time.Hour)

	var todayOrders int64
	rc.DB.Model(&models.Order{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, todayStart).
		Count(&todayOrders)

	var todayRevenue float64
	rc.DB.Model(&models.Order{}).
		Where("tenant_id = ? AND created_at >= ? AND payment_status IN ?",
			tenantID, todayStart, []string{services.PaymentCompleted, "paid"}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue)

	var activeOrders int64
	rc.DB.Model(&models.Order{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]string{services.StatusPending, services.StatusConfirmed,
				services.StatusCooking, services.StatusReady}).
		Count(&activeOrders)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	rc.DB.Model(&models.Order{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, todayStart).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"today_orders":  todayOrders,
		"today_revenue": todayRevenue,
		"active_orders": activeOrders,
		"by_status":     byStatus,
	})
}

// dateRange applies the optional from/to query params (YYYY-MM-DD, to is
// inclusive) against the given created_at column.
func dateRange(c *gin.Context, query *gorm.DB, column string) *gorm.DB {
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where(column+" >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where(column+" < ?", t.Add(24*time.Hour))
		}
	}
	return query
}

// ExportOrdersCSV -> orders report for a date range, streamed as CSV
func (rc *ReportController) ExportOrdersCSV(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	query := dateRange(c, rc.DB.Where("tenant_id = ?", tenantID), "created_at")

	var orders []models.Order
	if err := query.Order("created_at ASC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=orders.csv")

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"order_id", "created_at", "table", "source", "status",
		"payment_status", "payment_method", "total_amount"})
	for _, o := range orders {
		w.Write([]string{
			o.ID,
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.TableIdentifier,
			o.SourceType,
			o.Status,
			o.PaymentStatus,
			o.PaymentMethod,
			fmt.Sprintf("%.2f", o.TotalAmount),
		})
	}
}

// ExportRevenueCSV -> settled revenue per day for a date range.
func (rc *ReportController) ExportRevenueCSV(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	type dailyRevenue struct {
		Day     string
		Orders  int64
		Revenue float64
	}

	query := dateRange(c,
		rc.DB.Model(&models.Order{}).
			Where("tenant_id = ? AND payment_status IN ?",
				tenantID, []string{services.PaymentCompleted, "paid"}),
		"created_at")

	var rows []dailyRevenue
	err := query.
		Select("DATE(created_at) as day, COUNT(*) as orders, COALESCE(SUM(total_amount), 0) as revenue").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=revenue.csv")

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"day", "orders", "revenue"})
	for _, r := range rows {
		w.Write([]string{
			r.Day,
			fmt.Sprintf("%d", r.Orders),
			fmt.Sprintf("%.2f", r.Revenue),
		})
	}
}

// ExportProductsCSV -> item sales for a date range, best sellers first.
// Cancelled orders do not count.
func (rc *ReportController) ExportProductsCSV(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	type productSales struct {
		ItemName string
		Quantity int64
		Revenue  float64
	}

	query := dateRange(c,
		rc.DB.Table("order_items").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.tenant_id = ? AND orders.status <> ?",
				tenantID, services.StatusCancelled),
		"orders.created_at")

	var rows []productSales
	err := query.
		Select("order_items.item_name as item_name, SUM(order_items.quantity) as quantity, COALESCE(SUM(order_items.subtotal), 0) as revenue").
		Group("order_items.item_name").
		Order("quantity DESC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products.csv")

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"item_name", "quantity_sold", "revenue"})
	for _, r := range rows {
		w.Write([]string{
			r.ItemName,
			fmt.Sprintf("%d", r.Quantity),
			fmt.Sprintf("%.2f", r.Revenue),
		})
	}
}
