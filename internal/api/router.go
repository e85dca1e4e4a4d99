// Package api exposes job search over HTTP.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/resumesmartx/resumesmartx/internal/service"
)

// JobService is the search pipeline behind the handlers. *service.Service
// satisfies it.
type JobService interface {
	Search(ctx context.Context, req service.Request) service.Response
	SearchResume(ctx context.Context, pdf []byte, jobField string, max int) (service.Response, error)
}

// Options configures NewRouter.
type Options struct {
	Providers      []string // reported by /health
	AllowedOrigins []string // empty allows any origin
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc JobService, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{svc: svc, providers: opts.Providers, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), cors.New(corsConfig(opts.AllowedOrigins)))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.POST("/jobs/search", h.SearchJobs)
		v1.POST("/jobs/search/resume", h.SearchResume)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
