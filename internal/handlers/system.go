package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var startedAt = time.Now()

func (h HandlerSet) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := "ok"
	checks := gin.H{"postgres": "ok", "redis": "ok"}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status = "degraded"
			checks["postgres"] = err.Error()
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			status = "degraded"
			checks["redis"] = err.Error()
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, apiResponse{Success: status == "ok", Data: gin.H{
		"status": status,
		"checks": checks,
	}})
}

type systemInfoResponse struct {
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
	GoVersion   string   `json:"go_version"`
	UptimeSecs  int64    `json:"uptime_secs"`
	Models      []string `json:"models"`
}

func (h HandlerSet) SystemInfo(c *gin.Context) {
	models := make([]string, 0)
	for _, info := range h.registry.Models() {
		models = append(models, info.ID)
	}

	ok(c, systemInfoResponse{
		Version:     Version,
		Environment: h.cfg.Environment,
		GoVersion:   runtime.Version(),
		UptimeSecs:  int64(time.Since(startedAt).Seconds()),
		Models:      models,
	})
}
