package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backoffice/internal/infra"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

const healthTimeout = 2 * time.Second

type HealthController struct {
	db      *gorm.DB
	metrics *observability.Metrics
}

func NewHealthController(db *gorm.DB, metrics *observability.Metrics) *HealthController {
	return &HealthController{db: db, metrics: metrics}
}

func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := infra.Ping(ctx, h.db); err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "Database unreachable")
		return
	}
	utils.RespondSuccess(c, gin.H{"database": "up"}, "OK")
}

func (h *HealthController) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
