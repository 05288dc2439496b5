package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupStrictLimiterRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", NewStrictRateLimiter(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hitLogin(router *gin.Engine, remoteAddr string) int {
	req, _ := http.NewRequest("POST", "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestStrictRateLimiterIsPerClientIP(t *testing.T) {
	router := setupStrictLimiterRouter()

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(router, "10.0.0.1:4000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hitLogin(router, "10.0.0.1:4000"))

	// A different address still has its full budget.
	assert.Equal(t, http.StatusOK, hitLogin(router, "10.0.0.2:4000"))
}
