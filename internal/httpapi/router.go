// Package httpapi exposes the services as a JSON REST API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landivo/internal/logging"
	"landivo/internal/service"
)

// NewRouter returns a gin engine with every route registered.
func NewRouter(svc *service.Services, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(log), recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	buyers := r.Group("/buyer")
	registerBuyerRoutes(buyers, svc.Buyers)
	registerActivityRoutes(buyers, svc.Activity)
	registerEmailListRoutes(r.Group("/email-lists"), svc.Lists)
	registerUserRoutes(r.Group("/user"), svc.Users)
	return r
}

// requestLogger logs one line per request once it has been served.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		args := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", args...)
		case status >= http.StatusBadRequest:
			log.Warning("request", args...)
		default:
			log.Info("request", args...)
		}
	}
}

func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error("panic serving request", "path", c.Request.URL.Path, "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}
