package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushilldhakal/tourmarket/pkg/health"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthGet(t *testing.T) {
	ok := health.PingFunc(func(ctx context.Context) error { return nil })
	down := health.PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name           string
		deps           map[string]health.Pinger
		expectedCode   int
		expectedStatus string
		expectedChecks map[string]string
	}{
		{
			name:           "All dependencies up",
			deps:           map[string]health.Pinger{"postgres": ok, "redis": ok},
			expectedCode:   http.StatusOK,
			expectedStatus: "healthy",
			expectedChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name:           "Redis down",
			deps:           map[string]health.Pinger{"postgres": ok, "redis": down},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unhealthy",
			expectedChecks: map[string]string{"postgres": "ok", "redis": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/health", health.HealthGet("1.2.3", tt.deps))
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()

			e.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var response health.HealthResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
			assert.Equal(t, tt.expectedStatus, response.Status)
			assert.Equal(t, "1.2.3", response.Version)
			assert.Equal(t, tt.expectedChecks, response.Checks)
			assert.NotEmpty(t, response.GoVersion)
			assert.Greater(t, response.Memory.Sys, uint64(0))

			timestamp, err := time.Parse(time.RFC3339, response.Timestamp)
			assert.NoError(t, err)
			assert.True(t, time.Since(timestamp) < time.Minute)
		})
	}

	t.Run("Only GET is routed", func(t *testing.T) {
		e := echo.New()
		e.GET("/health", health.HealthGet("", nil))
		rr := httptest.NewRecorder()

		e.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}
