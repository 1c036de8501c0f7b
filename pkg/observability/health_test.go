package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func TestHealthRegistry(t *testing.T) {
	t.Run("empty registry is healthy", func(t *testing.T) {
		health := NewHealthRegistry().GetOverallHealth(context.Background())
		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Empty(t, health.Checks)
	})

	t.Run("degraded dependency degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(ok))
		r.Register("redis", RedisHealthChecker(down))

		health := r.GetOverallHealth(context.Background())
		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, "redis connection failed: connection refused", health.Checks["redis"].Message)
		assert.Equal(t, HealthStatusHealthy, health.Checks["database"].Status)
	})

	t.Run("unhealthy wins over degraded", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(down))
		r.Register("rabbitmq", RabbitMQHealthChecker(down))

		assert.Equal(t, HealthStatusUnhealthy, r.GetOverallHealth(context.Background()).Status)
	})
}

func TestHealthRegistryServeHTTP(t *testing.T) {
	tests := []struct {
		name     string
		checker  HealthChecker
		wantCode int
		want     HealthStatus
	}{
		{"healthy", DatabaseHealthChecker(ok), http.StatusOK, HealthStatusHealthy},
		{"degraded still serves", RedisHealthChecker(down), http.StatusOK, HealthStatusDegraded},
		{"unhealthy", DatabaseHealthChecker(down), http.StatusServiceUnavailable, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHealthRegistry()
			r.Register("dep", tt.checker)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body OverallHealth
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
		})
	}
}
