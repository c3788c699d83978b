package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunegraph/tunegraph"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	client *tunegraph.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *tunegraph.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "tunegraph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - process is up.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready - verifies database connectivity.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	allHealthy := true

	if h.client != nil {
		started := time.Now()
		err := h.client.Store().Ping(ctx)
		duration := time.Since(started)
		if err != nil {
			checks["database"] = gin.H{
				"status":   "unhealthy",
				"error":    err.Error(),
				"duration": duration.String(),
			}
			allHealthy = false
		} else {
			checks["database"] = gin.H{
				"status":   "healthy",
				"duration": duration.String(),
			}
		}
	} else {
		checks["database"] = gin.H{"status": "not configured"}
		allHealthy = false
	}

	status := "ready"
	code := http.StatusOK
	if !allHealthy {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   "tunegraph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// DetailedHealthCheck handles GET /health/detailed - includes build info.
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "tunegraph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"build": gin.H{
			"version":    Version,
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
		"runtime": gin.H{
			"goroutines":  runtime.NumGoroutine(),
			"alloc_bytes": memStats.Alloc,
			"num_gc":      memStats.NumGC,
			"gomaxprocs":  runtime.GOMAXPROCS(0),
		},
	})
}
