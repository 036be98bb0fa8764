package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"mailsched/internal/config"
	"mailsched/internal/http/middleware"
	"mailsched/internal/notifier"
	"mailsched/internal/store"
)

type Server struct{ e *echo.Echo }

// NewServer wires the schedule routes. rds may be nil (rate limiting
// disabled); all schedule mutation goes through st, never around it.
func NewServer(cfg config.Config, st *store.Store, n notifier.Notifier, rds *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	e.POST("/schedules", createScheduleHandler(st), rlMW)
	e.GET("/schedules", listSchedulesHandler(st))
	e.DELETE("/schedules/:id", deleteScheduleHandler(st), rlMW)
	e.GET("/status", statusHandler(st, n))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// Echo exposes the underlying router for handler tests.
func (s *Server) Echo() *echo.Echo { return s.e }
