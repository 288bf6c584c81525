package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", RateLimit(1, 2), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	status := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if got := status(); got != http.StatusOK {
		t.Fatalf("first request = %d, want 200", got)
	}
	if got := status(); got != http.StatusOK {
		t.Fatalf("second request = %d, want 200", got)
	}
	if got := status(); got != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", got)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", RateLimit(1, 1), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	status := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if got := status("10.0.0.1:1234"); got != http.StatusOK {
		t.Fatalf("first client = %d, want 200", got)
	}
	if got := status("10.0.0.1:1234"); got != http.StatusTooManyRequests {
		t.Fatalf("first client second request = %d, want 429", got)
	}
	if got := status("10.0.0.2:1234"); got != http.StatusOK {
		t.Fatalf("second client = %d, want 200", got)
	}
}

func TestClientIP(t *testing.T) {
	if got := clientIP("10.0.0.1:1234"); got != "10.0.0.1" {
		t.Errorf("clientIP() = %q, want 10.0.0.1", got)
	}
	if got := clientIP("10.0.0.1"); got != "10.0.0.1" {
		t.Errorf("clientIP() without port = %q, want 10.0.0.1", got)
	}
}
