package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/core/ports"
)

// Pinger reports storage liveness. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDeps struct {
	Events   *EventHandler
	Tickets  *TicketHandler
	Resolver ports.IdentityResolver
	DB       Pinger
	Log      zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	required := RequireAuth(deps.Resolver)
	optional := OptionalAuth(deps.Resolver)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", healthz(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	events := r.Group("/events")
	events.GET("", deps.Events.ListEvents)
	events.GET("/:id", deps.Events.GetEvent)
	events.POST("", required, deps.Events.CreateEvent)
	events.PATCH("/:id", required, deps.Events.UpdateEvent)

	r.POST("/tickets", optional, deps.Tickets.IssueTickets)

	validation := r.Group("/validation")
	validation.GET("/validate/:code", deps.Tickets.LookupTicket)
	validation.POST("/scan/:code", required, deps.Tickets.ScanTicket)
	validation.GET("/report/:eventId", required, deps.Tickets.GetEventReport)

	return r
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
