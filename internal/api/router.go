package api

import (
	"time"

	"rxcheck/internal"

	"github.com/gin-gonic/gin"
)

// NewRouter creates the gin engine with logging and recovery middleware
func NewRouter(h *ValidationHandler, logger *internal.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	h.RegisterRoutes(router)
	return router
}

func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[API] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
