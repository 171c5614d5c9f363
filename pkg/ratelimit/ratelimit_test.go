package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:      true,
		Window:       time.Minute,
		DefaultLimit: 60,
		Limits: map[RateLimitType]int{
			RateLimitTypePublic:          100,
			RateLimitTypeAuth:            10,
			RateLimitTypeBooking:         30,
			RateLimitTypeBookingCritical: 5,
			RateLimitTypeAdmin:           200,
			RateLimitTypeHealth:          300,
			RateLimitTypeUser:            0,
		},
		WhitelistedIPs: []string{"10.0.0.1"},
	}
}

func TestLimitFallsBackToDefault(t *testing.T) {
	rl := NewRateLimiter(nil, testConfig())

	assert.Equal(t, 5, rl.Limit(RateLimitTypeBookingCritical))
	assert.Equal(t, 60, rl.Limit(RateLimitTypeUser), "zero budget uses the default")
	assert.Equal(t, 60, rl.Limit(RateLimitTypeDefault))
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/api/v1/status", RateLimitTypeHealth},
		{"/api/v1/admin/bookings/reconcile", RateLimitTypeAdmin},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/bookings", RateLimitTypeBookingCritical},
		{"/api/v1/bookings/:id/cancel", RateLimitTypeBookingCritical},
		{"/api/v1/bookings/:id/status", RateLimitTypeBookingCritical},
		{"/api/v1/bookings/:id/payment", RateLimitTypeBookingCritical},
		{"/api/v1/bookings/:id", RateLimitTypeBooking},
		{"/api/v1/users/trips", RateLimitTypeBooking},
		{"/api/v1/packages", RateLimitTypePublic},
		{"/api/v1/packages/:id/reviews", RateLimitTypePublic},
		{"/api/v1/places/search/nearby", RateLimitTypePublic},
		{"/api/v1/users/profile", RateLimitTypeUser},
		{"/swagger/*any", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestIsAllowedWithoutRedis(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.Enabled = false
	res, err := NewRateLimiter(nil, cfg).IsAllowed(ctx, "1.2.3.4", RateLimitTypeBookingCritical)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)

	res, err = NewRateLimiter(nil, testConfig()).IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "whitelisted clients skip redis")
	assert.Equal(t, 10, res.Limit)
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Enabled = false

	r := gin.New()
	r.Use(Middleware(NewRateLimiter(nil, cfg)))
	r.GET("/api/v1/packages", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "10.0.0.2:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:1234", "198.51.100.7"},
		{"bad header falls back", map[string]string{"X-Forwarded-For": "garbage"}, "192.0.2.1:80", "192.0.2.1"},
		{"remote addr", nil, "192.0.2.5:5555", "192.0.2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
