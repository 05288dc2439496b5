package main

import (
	"log"
	"os"

	"github.com/dineflow/dineflow/config"
	"github.com/dineflow/dineflow/middlewares"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/router"
	"github.com/dineflow/dineflow/services"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedSuperadmin(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	monitor := services.NewAgingMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.RestaurantTable{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AgingThreshold{},
		&models.PaymentProvider{},
		&models.Integration{},
		&models.EmailConfig{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedSuperadmin creates the bootstrap superadmin account on first run.
func seedSuperadmin(db *gorm.DB) {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Superadmin seed failed: %v", err)
		return
	}

	user := models.User{
		Name:     "Superadmin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		utils.ErrorLogger.Printf("Superadmin seed failed: %v", err)
		return
	}
	utils.InfoLogger.Printf("Superadmin account %s created", email)
}
