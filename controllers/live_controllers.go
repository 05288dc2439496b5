package controllers

import (
	"net/http"

	"github.com/dineflow/dineflow/live"
	"github.com/dineflow/dineflow/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHandler -> WebSocket endpoint for dashboard and kitchen screens.
// Auth middleware runs before this, so claims are already in the context.
func LiveHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	tenantInterface, _ := c.Get("tenant_id")
	tenantID, _ := tenantInterface.(string)

	// Superadmins may watch any tenant's stream.
	pathTenant := c.Param("tenant_id")
	if role == models.RoleSuperAdmin {
		tenantID = pathTenant
	} else if tenantID != pathTenant {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterClient(ws, tenantID, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterClient(ws)
}
