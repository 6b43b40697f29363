package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sammy440/Habit-tracker/config"
	pkgmq "github.com/sammy440/Habit-tracker/pkg/mq"
)

type Router struct {
	Engine *gin.Engine
}

// NewRouter wires every route. ready is called by /readyz and may be nil
// for backends with nothing to check; publisher may be nil when events are
// disabled.
func NewRouter(
	habitHandler *HabitHandler,
	authHandler *AuthHandler,
	authCfg config.AuthConfig,
	ready func(ctx context.Context) error,
	publisher *pkgmq.Publisher,
) *Router {
	r := gin.Default()

	r.Use(TraceMiddleware())
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c, 1*time.Second)
			defer cancel()

			if err := ready(ctx); err != nil {
				c.JSON(500, gin.H{"status": "store_not_ready", "error": err.Error()})
				return
			}
		}
		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	if authCfg.Enabled {
		r.POST("/login", authHandler.Login)
	}

	// Protected when auth is enabled, open otherwise
	auth := r.Group("/")
	if authCfg.Enabled {
		auth.Use(AuthMiddleware(authCfg.JWTSecret))
	}
	{
		auth.GET("/habits", habitHandler.ListHabits)
		auth.POST("/habits", habitHandler.CreateHabit)
		auth.GET("/habits/:id", habitHandler.GetHabit)
		auth.PATCH("/habits/:id", habitHandler.UpdateHabit)
		auth.DELETE("/habits/:id", habitHandler.DeleteHabit)
		auth.POST("/habits/:id/checkin", habitHandler.CheckIn)
		auth.DELETE("/habits/:id/checkin", habitHandler.UndoCheckIn)
		auth.GET("/habits/:id/stats", habitHandler.GetStats)
		auth.GET("/habits/:id/history", habitHandler.GetHistory)
		auth.GET("/stats", habitHandler.GetOverview)
		auth.GET("/export", habitHandler.Export)
		auth.POST("/backup", habitHandler.Backup)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
