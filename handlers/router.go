package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"case-analysis/logging"
)

// RouteRegistrar is implemented by every handler group.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// NewRouter builds the engine with request logging and panic recovery and
// mounts each group under /api.
func NewRouter(logger *zap.Logger, groups ...RouteRegistrar) *gin.Engine {
	r := gin.New()
	r.Use(logging.Middleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	for _, g := range groups {
		g.RegisterRoutes(api)
	}
	return r
}
