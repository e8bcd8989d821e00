package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manasakl/cowin-notify/internal/logger"
)

// NewRouter mounts the form, health and metrics endpoints
func NewRouter(form *FormHandler, metricsHandler http.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if log != nil {
		r.Use(logger.GinMiddleware(log))
	}

	r.GET("/", form.Index)
	r.POST("/check", form.Check)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
	return r
}
