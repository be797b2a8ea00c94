package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/academic-service/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBuildRateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("anonymous caller buckets by ip only", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "10.0.0.1:1234"

		key := buildRateKey("academic:rl", c)
		assert.Equal(t, "academic:rl:ip:10.0.0.1:user:anon", key)
	})

	t.Run("authenticated caller gets a distinct bucket", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "10.0.0.1:1234"
		c.Set(ContextUserIDKey, uint(7))

		key := buildRateKey("academic:rl", c)
		assert.Equal(t, "academic:rl:ip:10.0.0.1:user:7", key)
	})
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Disabled config and a nil client both degrade to a pass-through.
	handler := RateLimit(config.RateLimitConfig{Enabled: false}, nil)

	r := gin.New()
	r.GET("/", handler, func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("not a number"))
	assert.Equal(t, int64(0), asInt64(nil))
}
