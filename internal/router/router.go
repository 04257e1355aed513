package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shailesh1606/TestMocker/internal/config"
	"github.com/shailesh1606/TestMocker/internal/handler"
	"github.com/shailesh1606/TestMocker/internal/middleware"
	"github.com/shailesh1606/TestMocker/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session *handler.SessionHandler
	Attempt *handler.AttemptHandler
	System  *handler.SystemHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Brotli skips SSE and WebSocket upgrades internally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Sessions ──────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.POST("/sessions", handlers.Session.StartSession)

		current := api.Group("/sessions/current")
		{
			current.GET("", handlers.Session.GetState)
			current.POST("/navigate", handlers.Session.Navigate)
			current.POST("/jump", handlers.Session.Jump)
			current.POST("/question-type", handlers.Session.SetQuestionType)
			current.POST("/submit", handlers.Session.Submit)
			current.POST("/score", handlers.Session.Score)
			current.GET("/report", handlers.Session.GetReport)

			// Hints call out to an external generator; keep the rate low.
			hintLimiter := middleware.NewRateLimiter(10, time.Minute)
			current.POST("/hint", hintLimiter.Middleware(), handlers.Session.RequestHint)
		}

		// ─── Attempt history ───────────────────────────────────────────
		api.GET("/attempts", handlers.Attempt.ListAttempts)
		api.GET("/attempts/:attempt_id", handlers.Attempt.GetAttempt)
		api.DELETE("/attempts/:attempt_id", handlers.Attempt.DeleteAttempt)

		// ─── Diagnostics ───────────────────────────────────────────────
		api.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/sessions/current/stream", handlers.WS.SessionTimerStream)
	}

	return router
}
