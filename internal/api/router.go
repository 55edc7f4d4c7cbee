// Package api wires the HTTP router and server lifecycle.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/gopress/internal/config"
	"github.com/jonesrussell/gopress/internal/handlers"
	"github.com/jonesrussell/gopress/internal/logger"
)

const (
	corsMaxAgeHours = 12
)

// Handlers groups the handler set the router mounts.
type Handlers struct {
	Outlets    *handlers.OutletHandler
	Categories *handlers.CategoryHandler
	Ratings    *handlers.RatingHandler
	Internal   *handlers.InternalHandler
	Importer   *handlers.ImportHandler
}

func NewRouter(cfg *config.Config, h Handlers, log logger.Logger) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	// Middleware
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/api/v1")

	outlets := v1.Group("/outlets")
	outlets.POST("", h.Outlets.Create)
	outlets.GET("", h.Outlets.List)
	outlets.POST("/bulk", h.Outlets.Bulk)
	outlets.POST("/search", h.Outlets.Search)
	outlets.POST("/import", h.Importer.Import)
	outlets.GET("/metadata", h.Importer.Metadata)
	outlets.GET("/status", h.Outlets.ListByCampaign)
	outlets.GET("/dr-status", h.Ratings.Status)
	outlets.GET("/dr-stale", h.Ratings.Stale)
	outlets.GET("/low-domain-rating", h.Ratings.LowRating)
	outlets.GET("/campaign-categories-dr-status", h.Ratings.CategoryRollup)
	outlets.GET("/:id", h.Outlets.GetByID)
	outlets.PATCH("/:id", h.Outlets.Update)
	outlets.PATCH("/:id/status", h.Outlets.UpdateStatus)
	outlets.PATCH("/:id/domain-rating", h.Ratings.Record)

	categories := v1.Group("/categories")
	categories.POST("", h.Categories.Create)
	categories.GET("", h.Categories.List)
	categories.PATCH("/:id", h.Categories.Update)
	categories.POST("/:id/outlets", h.Categories.AddOutlet)
	categories.GET("/:id/outlets", h.Categories.ListOutlets)

	internal := v1.Group("/internal/outlets")
	internal.GET("/by-ids", h.Internal.ByIDs)
	internal.GET("/by-campaign/:campaignId", h.Internal.ByCampaign)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
