package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contactdeck/contactdeck/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func TestRateLimit_ExhaustedBurst_Returns429(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimit(1, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestRateLimit_SeparateIPs_HaveSeparateBudgets(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimit(1, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, addr := range []string{"192.0.2.1:1", "192.0.2.2:1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("first request from %s = %d, want 200", addr, w.Code)
		}
	}
}
