package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/parlorchat/parlor-server/internal/auth"
	"github.com/parlorchat/parlor-server/internal/config"
	"github.com/parlorchat/parlor-server/internal/core"
	"github.com/parlorchat/parlor-server/internal/kv"
	"github.com/parlorchat/parlor-server/internal/metrics"
)

// NewServer builds the HTTP server with all routes wired.
func NewServer(
	catalog *core.Catalog,
	presence *core.PresenceTracker,
	messages *core.MessageLog,
	store kv.Store,
	jwtConfig *auth.JWTConfig,
	cfg *config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggerMiddleware(logger))
	engine.Use(metrics.GinMiddleware())

	engine.GET("/health", healthHandler(store))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	roomHandlers := NewRoomHandlers(catalog, logger)
	presenceHandlers := NewPresenceHandlers(presence, logger)
	messageHandlers := NewMessageHandlers(messages, logger)

	api := engine.Group("/api")
	if cfg.RateLimitPerMinute > 0 {
		api.Use(RateLimit(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), cfg.RateLimitPerMinute))
	}
	api.Use(AuthMiddleware(jwtConfig, logger))

	api.GET("/rooms", roomHandlers.ListRooms)
	api.GET("/rooms/:roomId/users", presenceHandlers.ListActive)
	api.POST("/rooms/:roomId/users", presenceHandlers.Announce)
	api.DELETE("/rooms/:roomId/users", presenceHandlers.Withdraw)
	api.GET("/rooms/:roomId/messages", messageHandlers.List)
	api.POST("/rooms/:roomId/messages", messageHandlers.Append)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(store kv.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(stdhttp.StatusServiceUnavailable, ErrorResponse{Error: "store unreachable"})
			return
		}
		c.String(stdhttp.StatusOK, "ok")
	}
}
