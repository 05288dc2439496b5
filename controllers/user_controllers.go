package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> return JWT with role and tenant claims
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ? AND is_active = ?", input.Email, true).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	tenantID := ""
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tenantID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
		"tenant_id": tenantID,
	})
}

// GetProfile -> resolve the caller from JWT claims
func (uc *UserController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	userID, ok := userIDInterface.(string)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"tenant_id": user.TenantID,
	})
}

// CreateStaffUser -> restaurant admin adds kitchen staff or cashiers
func (uc *UserController) CreateStaffUser(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role != models.RoleKitchenStaff && req.Role != models.RoleCashier && req.Role != models.RoleRestaurantAdmin {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role for tenant user"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		TenantID: &tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user %s (role=%s) for tenant %s", user.Email, user.Role, tenantID)
	utils.RespondJSON(c, http.StatusCreated, "User created", gin.H{
		"user_id": user.ID,
	})
}

// GetTenantUsers -> list staff of one tenant
func (uc *UserController) GetTenantUsers(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var users []models.User
	if err := uc.DB.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tenant users", users)
}

// ErrNoPermission is returned when role checks inside handlers fail.
var ErrNoPermission = errors.New("you do not have permission")
