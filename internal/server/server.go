// Package server exposes the derived dashboard state over a small JSON API.
// It only ever reads the latest snapshot; all mutation stays inside the
// sync/poll subsystem.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"EvalsDashboard/internal/domain"
	"EvalsDashboard/internal/poller"
	"EvalsDashboard/internal/revenue"
	"EvalsDashboard/internal/syncer"
)

// Deps wires everything the HTTP layer reads from.
type Deps struct {
	Sync       *syncer.Service
	Poller     *poller.Poller
	Revenue    *revenue.Calculator
	Orders     []domain.Order
	Password   string
	JWTSecret  string
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// Server hosts the dashboard API.
type Server struct {
	engine     *gin.Engine
	sync       *syncer.Service
	poll       *poller.Poller
	calc       *revenue.Calculator
	orders     []domain.Order
	password   string
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// New builds the router. A missing JWT secret falls back to the password so
// a bare-minimum deployment still works; operators should set a real secret.
func New(deps Deps) *Server {
	secret := deps.JWTSecret
	if secret == "" {
		secret = deps.Password
	}
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sync:       deps.Sync,
		poll:       deps.Poller,
		calc:       deps.Revenue,
		orders:     deps.Orders,
		password:   deps.Password,
		jwtSecret:  []byte(secret),
		sessionTTL: ttl,
		logger:     logger,
		now:        time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/api/health", s.handleHealth)
	engine.POST("/api/auth/login", s.handleLogin)

	api := engine.Group("/api", s.authMiddleware())
	{
		api.GET("/problems", s.handleProblems)
		api.GET("/engineers", s.handleEngineers)
		api.GET("/stats", s.handleStats)
		api.GET("/orders", s.handleOrders)
		api.GET("/revenue", s.handleRevenue)
		api.GET("/sync", s.handleSyncState)
		api.POST("/sync", s.handleSyncTrigger)
	}

	s.engine = engine
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
