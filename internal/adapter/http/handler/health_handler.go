package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	db          port.HealthChecker
	environment string
	version     string
	startedAt   time.Time
}

func NewHealthHandler(db port.HealthChecker, environment, version string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		environment: environment,
		version:     version,
		startedAt:   time.Now(),
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status, _ := h.ping(c.Request.Context())
	healthy := status == "connected"

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(h.startedAt)

	data := response.HealthData{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime: response.Uptime{
			Seconds: int64(uptime.Seconds()),
			Minutes: int64(uptime.Minutes()),
			Hours:   int64(uptime.Hours()),
		},
		Database: response.DatabaseHealth{
			Status: status,
			Name:   h.db.Name(),
		},
		Memory: response.MemoryUsage{
			Alloc:     megabytes(mem.Alloc),
			Sys:       megabytes(mem.Sys),
			HeapAlloc: megabytes(mem.HeapAlloc),
			HeapSys:   megabytes(mem.HeapSys),
		},
		Environment: h.environment,
		Version:     h.version,
	}

	if !healthy {
		data.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: "API is unhealthy - database disconnected",
			Data:    data,
		})
		return
	}

	SendSuccess(c, http.StatusOK, "API is healthy", data)
}

func (h *HealthHandler) Detailed(c *gin.Context) {
	status, latency := h.ping(c.Request.Context())
	healthy := status == "connected"

	data := response.DetailedHealthData{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Database: response.DatabaseHealth{
			Status: status,
			Name:   h.db.Name(),
			Ping:   "N/A",
		},
		System: response.SystemInfo{
			Platform:    runtime.GOOS,
			Arch:        runtime.GOARCH,
			GoVersion:   runtime.Version(),
			Environment: h.environment,
		},
	}

	if !healthy {
		data.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: "Detailed health check failed",
			Data:    data,
		})
		return
	}

	data.Database.Ping = fmt.Sprintf("%dms", latency.Milliseconds())

	SendSuccess(c, http.StatusOK, "Detailed health check passed", data)
}

func (h *HealthHandler) ping(ctx context.Context) (string, time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()

	if err := h.db.PingContext(ctx); err != nil {
		return "disconnected", 0
	}

	return "connected", time.Since(start)
}

func megabytes(bytes uint64) string {
	return fmt.Sprintf("%d MB", bytes/1024/1024)
}
