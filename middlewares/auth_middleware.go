package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			// WebSocket clients pass the token as a query parameter.
			token = c.Query("token")
			if token != "" && !strings.HasPrefix(token, "Bearer ") {
				token = "Bearer " + token
			}
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(token, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(token, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if claims.UserID == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("tenant_id", claims.TenantID)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allow list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, errors.New("insufficient role"))
		c.Abort()
	}
}

// TenantGuard pins a caller to the tenant in the URL. Superadmins pass
// through regardless of the path tenant.
func TenantGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role == models.RoleSuperAdmin {
			c.Next()
			return
		}

		claimTenant, _ := c.Get("tenant_id")
		pathTenant := c.Param("tenant_id")
		if pathTenant == "" || claimTenant != pathTenant {
			utils.RespondError(c, http.StatusForbidden, errors.New("tenant access denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}
