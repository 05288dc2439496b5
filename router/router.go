package router

import (
	"time"

	"github.com/dineflow/dineflow/controllers"
	"github.com/dineflow/dineflow/middlewares"
	"github.com/dineflow/dineflow/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tenantCtrl := controllers.NewTenantController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	agingCtrl := controllers.NewAgingController(db)
	settingsCtrl := controllers.NewSettingsController(db)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "server_time": time.Now().UTC()})
	})

	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/login", userCtrl.Login)
	}

	// QR guest flow, no auth.
	public := r.Group("/public")
	{
		public.GET("/menu/:slug/:table_identifier", orderCtrl.GetPublicMenu)
		public.POST("/order/:slug/:table_identifier", orderCtrl.CreatePublicOrder)
		public.GET("/order/:slug/:table_identifier/:order_id", orderCtrl.GetPublicOrder)

		public.POST("/payment/create-order", paymentCtrl.CreateGatewayOrder)
		public.POST("/payment/verify", paymentCtrl.VerifyPayment)
		public.POST("/payment/webhook", paymentCtrl.HandleWebhook)
	}

	// ----------------------------------------------------------------
	//                      SUPERADMIN ROUTES
	// ----------------------------------------------------------------
	superadmin := r.Group("/superadmin")
	superadmin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleSuperAdmin))
	{
		superadmin.GET("/tenants", tenantCtrl.GetAllTenants)
		superadmin.POST("/tenants", tenantCtrl.CreateTenant)
		superadmin.GET("/tenants/:tenant_id", tenantCtrl.GetTenantByID)
		superadmin.PUT("/tenants/:tenant_id", tenantCtrl.UpdateTenant)
		superadmin.DELETE("/tenants/:tenant_id", tenantCtrl.DeleteTenant)
	}

	// ----------------------------------------------------------------
	//                      RESTAURANT ROUTES
	// ----------------------------------------------------------------
	restaurant := r.Group("/restaurant/:tenant_id")
	restaurant.Use(middlewares.AuthMiddleware(), middlewares.TenantGuard())
	{
		restaurant.GET("/profile", userCtrl.GetProfile)

		adminOnly := restaurant.Group("/")
		adminOnly.Use(middlewares.RequireRoles(models.RoleSuperAdmin, models.RoleRestaurantAdmin))
		{
			adminOnly.GET("/users", userCtrl.GetTenantUsers)
			adminOnly.POST("/users", userCtrl.CreateStaffUser)

			adminOnly.POST("/tables", tableCtrl.CreateTable)
			adminOnly.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
			adminOnly.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

			adminOnly.POST("/categories", categoryCtrl.CreateCategory)
			adminOnly.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
			adminOnly.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

			adminOnly.POST("/menu-items", menuCtrl.CreateMenuItem)
			adminOnly.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
			adminOnly.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

			adminOnly.PUT("/aging-thresholds", agingCtrl.UpdateThresholds)

			adminOnly.GET("/settings/payment", settingsCtrl.GetPaymentConfig)
			adminOnly.PUT("/settings/payment", settingsCtrl.UpsertPaymentConfig)
			adminOnly.GET("/settings/integrations", settingsCtrl.GetIntegrations)
			adminOnly.PUT("/settings/integrations", settingsCtrl.UpsertIntegration)
			adminOnly.GET("/settings/email", settingsCtrl.GetEmailConfig)
			adminOnly.PUT("/settings/email", settingsCtrl.UpsertEmailConfig)

			adminOnly.GET("/dashboard/stats", reportCtrl.GetDashboardStats)
			adminOnly.GET("/reports/orders.csv", reportCtrl.ExportOrdersCSV)
			adminOnly.GET("/reports/revenue.csv", reportCtrl.ExportRevenueCSV)
			adminOnly.GET("/reports/products.csv", reportCtrl.ExportProductsCSV)
		}

		// Read endpoints shared by every tenant role.
		restaurant.GET("/tables", tableCtrl.GetAllTables)
		restaurant.GET("/tables/status", tableCtrl.GetTableStatus)
		restaurant.POST("/tables/refresh-counts", tableCtrl.RefreshTableCounts)
		restaurant.GET("/categories", categoryCtrl.GetAllCategories)
		restaurant.GET("/menu-items", menuCtrl.GetAllMenuItems)
		restaurant.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)

		restaurant.GET("/orders", orderCtrl.GetAllOrders)
		restaurant.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		restaurant.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		restaurant.PATCH("/orders/:order_id/items/:item_id/status", orderCtrl.UpdateOrderItemStatus)

		restaurant.GET("/orders-aging", agingCtrl.GetAgingOrders)
		restaurant.GET("/aging-thresholds", agingCtrl.GetThresholds)

		cashier := restaurant.Group("/")
		cashier.Use(middlewares.RequireRoles(models.RoleSuperAdmin, models.RoleRestaurantAdmin, models.RoleCashier))
		{
			cashier.POST("/orders/:order_id/cash-paid", orderCtrl.MarkCashPaid)
		}
	}

	// WebSocket endpoint for live dashboards.
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/:tenant_id", controllers.LiveHandler)
	}

	return r
}
