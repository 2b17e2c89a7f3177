//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireActor(t *testing.T) {
	engine := gin.New()
	engine.GET("/who", middleware.RequireActor(), func(c *gin.Context) {
		id, ok := middleware.GetActorID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	t.Run("valid header", func(t *testing.T) {
		actor := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(middleware.ActorHeader, actor.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, actor.String(), w.Body.String())
	})

	for name, header := range map[string]string{"missing": "", "malformed": "nurse-7", "nil": uuid.Nil.String()} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if header != "" {
				req.Header.Set(middleware.ActorHeader, header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), middleware.ActorHeader)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	engine := gin.New()
	engine.POST("/hold", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/hold", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Buckets are per client.
	req := httptest.NewRequest(http.MethodPost, "/hold", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	limiter := middleware.NewRateLimiterWithClock(config.RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             1,
		IdleTTL:           10 * time.Minute,
	}, clk)
	engine := gin.New()
	engine.POST("/hold", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/hold", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	for _, addr := range []string{"10.0.0.1:5000", "10.0.0.2:5000", "10.0.0.3:5000"} {
		require.Equal(t, http.StatusNoContent, call(addr))
	}
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.2:5000"))
	assert.Equal(t, 3, limiter.Clients())

	clk.Add(5 * time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5000"))
	assert.Equal(t, 3, limiter.Clients())

	clk.Add(6 * time.Minute)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.4:5000"))
	assert.Equal(t, 2, limiter.Clients(), "clients idle past the TTL are dropped")

	// An evicted client starts over with a full bucket.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
	assert.Equal(t, 3, limiter.Clients())
}

func TestCustomRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.CustomRecovery())
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, w.Body.String())
}
