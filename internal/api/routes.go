package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/middleware"
)

type handlerSet struct {
	list, get, create, update, remove gin.HandlerFunc
}

func (h handlerSet) mount(g *gin.RouterGroup, path string) {
	g.GET(path, h.list)
	g.POST(path, h.create)
	g.GET(path+"/:id", h.get)
	g.PUT(path+"/:id", h.update)
	g.DELETE(path+"/:id", h.remove)
}

// RouteOptions carries the collaborators the router needs beyond the API itself.
type RouteOptions struct {
	APIToken  string
	JWTSecret string
	// Ping reports store health for GET /health.
	Ping func(ctx context.Context) error
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

func (a *API) RegisterRoutes(r *gin.Engine, opts RouteOptions) {
	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	auth := r.Group("/api")
	auth.Use(middleware.BearerAuth(opts.APIToken, opts.JWTSecret))
	{
		a.ballotHandlers().mount(auth, "/ballots")
		auth.POST("/ballots/:id/votes", a.ballotVoteHandler())

		a.dashboardHandlers().mount(auth, "/dashboards")

		a.attendanceHandlers().mount(auth, "/attendance")
		auth.POST("/attendance/:id/responses", a.attendanceResponseHandler())
	}
}
