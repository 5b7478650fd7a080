package health

import (
	"context"
	"github.com/labstack/echo/v4"
	"net/http"
	"runtime"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool; redis clients are adapted with PingFunc.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime"`
	GoVersion string            `json:"go_version"`
	Checks    map[string]string `json:"checks,omitempty"`
	Memory    struct {
		Alloc      uint64 `json:"alloc"`      // bytes allocated and not yet freed
		TotalAlloc uint64 `json:"totalAlloc"` // total bytes allocated (even if freed)
		Sys        uint64 `json:"sys"`        // bytes obtained from system
		NumGC      uint32 `json:"numGC"`      // number of garbage collections
	} `json:"memory"`
}

var startTime = time.Now()

const checkTimeout = 2 * time.Second

// HealthGet reports 503 when any dependency fails its ping.
func HealthGet(version string, deps map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		health := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version,
			Uptime:    time.Since(startTime).String(),
			GoVersion: runtime.Version(),
			Checks:    map[string]string{},
		}
		health.Memory.Alloc = memStats.Alloc
		health.Memory.TotalAlloc = memStats.TotalAlloc
		health.Memory.Sys = memStats.Sys
		health.Memory.NumGC = memStats.NumGC

		status := http.StatusOK
		for name, dep := range deps {
			ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
			err := dep.Ping(ctx)
			cancel()
			if err != nil {
				health.Checks[name] = err.Error()
				health.Status = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			health.Checks[name] = "ok"
		}

		return c.JSON(status, health)
	}
}
