package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/middleware"
)

func TestRateLimiter_PerKeyBuckets(t *testing.T) {
	rl := middleware.NewRateLimiter(rate.Every(time.Second), 1, time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, rl.Allow("till-1", now))
	assert.False(t, rl.Allow("till-1", now.Add(100*time.Millisecond)))
	assert.True(t, rl.Allow("till-2", now), "other terminals keep their own bucket")
	assert.True(t, rl.Allow("till-1", now.Add(1100*time.Millisecond)))
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(60, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.TerminalHeader, "till-9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
