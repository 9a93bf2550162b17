package handlers

import (
	"context"
	"net/http"
	"time"

	"ecom_back_end/internal/config"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// Check sonde de dépendance utilisée par /healthz
type Check func(ctx context.Context) error

type SystemHandler struct {
	public config.PublicSettings
	checks map[string]Check
}

func NewSystemHandler(cfg config.Settings, checks map[string]Check) *SystemHandler {
	return &SystemHandler{public: cfg.Public(), checks: checks}
}

// 🟢 GET /api/config
func (h *SystemHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, h.public)
}

// 🟢 GET /healthz
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	report := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
}
