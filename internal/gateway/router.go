package gateway

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"maktub/internal/middleware"
	"maktub/internal/proxy"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	proxyHandler *proxy.Handler,
	lettersHandler *LettersHandler,
	settingsHandler *SettingsHandler,
	jwtSecret string,
	rdb *redis.Client,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(500, gin.H{"status": "cache_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Upstream proxy. One route per verb; the endpoint name travels in
	// the body for writes and as a query parameter for reads.
	api := r.Group("/api")
	{
		api.POST("/proxy", proxyHandler.HandlePost)
		api.GET("/proxy", proxyHandler.HandleGet)
		api.PUT("/proxy", proxyHandler.HandlePut)
		api.DELETE("/proxy", proxyHandler.HandleDelete)
	}

	// Protected
	auth := r.Group("/api")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/letters", lettersHandler.GetLetters)
		auth.POST("/letters/refresh", lettersHandler.RefreshLetters)
		auth.GET("/settings", settingsHandler.GetSettings)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
