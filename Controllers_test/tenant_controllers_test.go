package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineflow/dineflow/controllers"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
)

func setupTestDBForTenants() *gorm.DB {
	dsn := fmt.Sprintf("file:ctrl_tenants_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.MenuCategory{},
		&models.AgingThreshold{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupTenantRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tenantCtrl := controllers.NewTenantController(db)
	router.POST("/superadmin/tenants", tenantCtrl.CreateTenant)
	router.GET("/superadmin/tenants", tenantCtrl.GetAllTenants)
	router.GET("/superadmin/tenants/:tenant_id", tenantCtrl.GetTenantByID)
	router.PUT("/superadmin/tenants/:tenant_id", tenantCtrl.UpdateTenant)
	router.DELETE("/superadmin/tenants/:tenant_id", tenantCtrl.DeleteTenant)
	return router
}

func TestCreateTenantProvisionsEverything(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTenants()
	router := setupTenantRouter(db)

	payload := map[string]interface{}{
		"name":           "The Grand Thali",
		"address":        "12 MG Road",
		"admin_name":     "Priya",
		"admin_email":    "priya@grandthali.example",
		"admin_password": "longenoughpassword",
	}
	payloadBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/superadmin/tenants", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "the-grand-thali", data["slug"])
	tenantID := data["tenant_id"].(string)

	var admin models.User
	assert.NoError(t, db.First(&admin, "email = ?", "priya@grandthali.example").Error)
	assert.Equal(t, models.RoleRestaurantAdmin, admin.Role)
	assert.Equal(t, tenantID, *admin.TenantID)
	assert.NotEqual(t, "longenoughpassword", admin.Password)

	var categoryCount int64
	db.Model(&models.MenuCategory{}).Where("tenant_id = ?", tenantID).Count(&categoryCount)
	assert.Equal(t, int64(4), categoryCount)

	var threshold models.AgingThreshold
	assert.NoError(t, db.First(&threshold, "tenant_id = ?", tenantID).Error)
	assert.Equal(t, 5, threshold.WarningMinutes)
	assert.Equal(t, 20, threshold.CriticalMinutes)
}

func TestCreateTenantDuplicateAdminEmail(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTenants()
	router := setupTenantRouter(db)

	payload := map[string]interface{}{
		"name":           "First Place",
		"admin_name":     "Ravi",
		"admin_email":    "ravi@example.com",
		"admin_password": "longenoughpassword",
	}
	payloadBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/superadmin/tenants", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	payload["name"] = "Second Place"
	payloadBytes, _ = json.Marshal(payload)
	req, _ = http.NewRequest("POST", "/superadmin/tenants", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetAllTenantsHidesInactiveByDefault(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTenants()
	router := setupTenantRouter(db)

	db.Create(&models.Tenant{Name: "Open House", Slug: "open-house", IsActive: true})
	db.Create(&models.Tenant{Name: "Shut Shop", Slug: "shut-shop", IsActive: false})

	req, _ := http.NewRequest("GET", "/superadmin/tenants", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	tenants := resp["data"].([]interface{})
	assert.Len(t, tenants, 1)
	assert.Equal(t, "open-house", tenants[0].(map[string]interface{})["slug"])

	req, _ = http.NewRequest("GET", "/superadmin/tenants?include_inactive=true", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp["data"].([]interface{}), 2)
}

func TestUpdateTenantDeactivates(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTenants()
	router := setupTenantRouter(db)

	tenant := models.Tenant{Name: "Old Name", Slug: "old-name", IsActive: true}
	db.Create(&tenant)

	active := false
	body, _ := json.Marshal(map[string]interface{}{"name": "New Name", "is_active": active})
	req, _ := http.NewRequest("PUT", "/superadmin/tenants/"+tenant.ID, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Tenant
	db.First(&stored, "id = ?", tenant.ID)
	assert.Equal(t, "New Name", stored.Name)
	assert.False(t, stored.IsActive)
	// The slug is immutable, QR codes printed on tables keep working.
	assert.Equal(t, "old-name", stored.Slug)
}

func TestDeleteTenant(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTenants()
	router := setupTenantRouter(db)

	tenant := models.Tenant{Name: "Closing Down", Slug: "closing-down", IsActive: true}
	db.Create(&tenant)

	req, _ := http.NewRequest("DELETE", "/superadmin/tenants/"+tenant.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Tenant
	err := db.First(&stored, "id = ?", tenant.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
