package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gencapp/genc/internal/config"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/internal/middleware"
	"github.com/gencapp/genc/internal/tracing"
	"github.com/gencapp/genc/pkg/models"
)

func setupRouter(api *API, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(api.log))
	router.Use(metricsMiddleware())
	if cfg.Tracing.Enabled {
		router.Use(tracing.Middleware())
	}

	rl := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	go rl.Cleanup(10 * time.Minute)
	limit := middleware.RateLimit(rl)

	// Health check
	router.GET("/health", api.healthCheck)

	// Public routes, limited per client IP
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", limit, api.register)
		v1.POST("/auth/login", limit, api.login)
	}

	// Authenticated routes, limited per user once auth has run
	authed := v1.Group("")
	authed.Use(api.auth.Auth(), limit)
	{
		authed.GET("/auth/me", api.me)

		// Collections
		authed.GET("/collections", api.listCollections)
		authed.POST("/collections", api.createCollection)
		authed.GET("/collections/:id", api.getCollection)
		authed.PATCH("/collections/:id", api.updateCollection)
		authed.DELETE("/collections/:id", api.deleteCollection)

		// Videos
		authed.GET("/videos", api.listVideos)
		authed.POST("/videos", api.addVideo)
		authed.GET("/videos/:id", api.getVideo)
		authed.PATCH("/videos/:id", api.updateVideo)
		authed.DELETE("/videos/:id", api.deleteVideo)
		authed.POST("/videos/:id/move", api.moveVideo)
		authed.POST("/videos/:id/copy", api.copyVideo)
		authed.POST("/videos/:id/transcribe", api.retranscribeVideo)

		// Scripts
		authed.POST("/scripts/generate", api.generateScripts)
		authed.POST("/scripts/humanize", api.humanizeScript)
		authed.POST("/scripts/shorten", api.shortenScript)
		authed.POST("/scripts/hooks", api.generateHooks)
		authed.POST("/scripts/analyze", api.analyzeScript)

		// Voice
		authed.POST("/voice/transcribe", api.transcribeVoiceNote)
		authed.GET("/voices", api.listVoices)
		authed.POST("/voices", api.createVoice)

		// Usage
		authed.GET("/usage/stats", api.usageStats)

		// Notes
		authed.GET("/notes", api.listNotes)
		authed.POST("/notes", api.createNote)
		authed.GET("/notes/:id", api.getNote)
		authed.PATCH("/notes/:id", api.updateNote)
		authed.DELETE("/notes/:id", api.deleteNote)

		// Webhooks
		authed.GET("/webhooks", api.listWebhooks)
		authed.POST("/webhooks", api.createWebhook)
		authed.DELETE("/webhooks/:id", api.deleteWebhook)
	}

	// Admin routes
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
	{
		admin.GET("/users", api.listUsers)
		admin.PATCH("/users/:uid", api.updateUser)
		admin.DELETE("/users/:uid", api.deleteUser)
		admin.POST("/users/:uid/credits/reset", api.resetUserCredits)
		admin.POST("/brand-profiles/:uid/activate", api.activateBrandProfile)
	}

	return router
}

// metricsMiddleware records request counts and latency per route.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}

// healthCheck reports the status of the backing services.
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	if err := api.db.Health(ctx); err != nil {
		components["database"] = err.Error()
		healthy = false
	} else {
		components["database"] = "ok"
	}

	if err := api.cache.Ping(ctx); err != nil {
		components["cache"] = err.Error()
		healthy = false
	} else {
		components["cache"] = "ok"
	}

	if depth, err := api.jobs.GetQueueDepth(); err != nil {
		components["queue"] = err.Error()
		healthy = false
	} else {
		components["queue"] = "ok"
		components["queue_depth"] = depth
	}

	status := http.StatusOK
	body := gin.H{"status": "healthy", "components": components}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
	}

	c.JSON(status, body)
}
