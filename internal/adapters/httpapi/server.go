package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/config"
)

// WebSocketServer upgrades a request into a game's event stream
type WebSocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, gameID string) error
}

// Server is the player-facing HTTP surface. Every game route is a thin
// translation into a mediator command or query.
type Server struct {
	mediator mediator.Mediator
	ws       WebSocketServer
	cfg      config.ServerConfig
	log      *logrus.Logger
	engine   *gin.Engine
	limiter  *ipRateLimiter
}

func NewServer(m mediator.Mediator, ws WebSocketServer, cfg config.ServerConfig, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		mediator: m,
		ws:       ws,
		cfg:      cfg,
		log:      log,
		engine:   gin.New(),
		limiter:  newIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestLogger(s.log))

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := s.engine.Group("/", s.limiter.middleware())
	limited.GET("/ws", s.serveWS)

	games := limited.Group("/api/games/:gameID")
	games.GET("", s.getGame)
	games.GET("/snapshot", s.getSnapshot)
	games.GET("/turns/:turn/combat-log", s.getCombatLog)

	ships := games.Group("/ships/:shipID")
	ships.POST("/queue", s.queueOrder)
	ships.GET("/queue", s.listQueue)
	ships.DELETE("/queue", s.clearQueue)
	ships.DELETE("/queue/:orderID", s.removeQueuedOrder)
	ships.POST("/ability", s.submitAbility)
	ships.GET("/cooldowns", s.getCooldowns)
}

// MountMetrics serves the Prometheus registry at path, outside the rate limiter
func (s *Server) MountMetrics(path string) {
	if path == "" {
		path = "/metrics"
	}
	s.engine.GET(path, gin.WrapH(metrics.Handler()))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", s.cfg.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stopCleanup := s.limiter.startCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
