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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineflow/dineflow/controllers"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
)

func setupTestDBForUsers() *gorm.DB {
	dsn := fmt.Sprintf("file:ctrl_users_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Tenant{}, &models.User{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/login", userCtrl.Login)
	router.POST("/restaurant/:tenant_id/users", userCtrl.CreateStaffUser)
	router.GET("/restaurant/:tenant_id/users", userCtrl.GetTenantUsers)
	return router
}

func seedUser(db *gorm.DB, tenantID *string, email, password, role string, active bool) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := models.User{
		TenantID: tenantID,
		Name:     "Test User",
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: active,
	}
	db.Create(&user)
	return &user
}

func TestLoginReturnsTokenWithTenantClaim(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	tenant := models.Tenant{Name: "Masala Box", Slug: "masala-box", IsActive: true}
	db.Create(&tenant)
	seedUser(db, &tenant.ID, "admin@masalabox.example", "hunter2hunter2", models.RoleRestaurantAdmin, true)

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@masalabox.example",
		"password": "hunter2hunter2",
	})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "restaurant_admin", data["user_role"])
	assert.Equal(t, tenant.ID, data["tenant_id"])

	claims, err := utils.ParseToken(data["token"].(string))
	assert.NoError(t, err)
	assert.Equal(t, models.RoleRestaurantAdmin, claims.Role)
	assert.Equal(t, tenant.ID, claims.TenantID)
}

func TestLoginWrongPassword(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	seedUser(db, nil, "root@dineflow.example", "correctpassword", models.RoleSuperAdmin, true)

	body, _ := json.Marshal(map[string]string{
		"email":    "root@dineflow.example",
		"password": "wrongpassword",
	})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	seedUser(db, nil, "gone@dineflow.example", "correctpassword", models.RoleCashier, false)

	body, _ := json.Marshal(map[string]string{
		"email":    "gone@dineflow.example",
		"password": "correctpassword",
	})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateStaffUserRoleWhitelist(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	tenant := models.Tenant{Name: "Masala Box", Slug: "masala-box", IsActive: true}
	db.Create(&tenant)

	body, _ := json.Marshal(map[string]string{
		"name":     "Kitchen Lead",
		"email":    "kitchen@masalabox.example",
		"password": "longenoughpw",
		"role":     models.RoleKitchenStaff,
	})
	req, _ := http.NewRequest("POST", "/restaurant/"+tenant.ID+"/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// No one mints a superadmin through the tenant endpoint.
	body, _ = json.Marshal(map[string]string{
		"name":     "Sneaky",
		"email":    "sneaky@masalabox.example",
		"password": "longenoughpw",
		"role":     models.RoleSuperAdmin,
	})
	req, _ = http.NewRequest("POST", "/restaurant/"+tenant.ID+"/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var users []models.User
	db.Where("tenant_id = ?", tenant.ID).Find(&users)
	assert.Len(t, users, 1)
}
