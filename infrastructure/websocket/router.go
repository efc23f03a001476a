package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter wires the identity routes, the session endpoint and the operational routes.
func NewRouter(h *Handler, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.LoggerWithWriter(NewLogWriter(log, slog.LevelDebug)), gin.Recovery())

	authLimiter := NewRateLimiter(rate.Limit(h.cfg.AuthRateLimit), h.cfg.AuthRateBurst)
	authGroup := r.Group("/auth", RateLimitMiddleware(authLimiter))
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	r.GET("/ws", h.Connect)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, h.stats.GetLatest())
	})
	return r
}
