// Package server exposes the worklog over HTTP: entries, calendar grids,
// discovery results, settings and LLM summaries.
package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhenders/worklog/internal/calendar"
	"github.com/mhenders/worklog/internal/config"
	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/entry"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

// RangeSummarizer is the summarization dependency; tests inject a stub and
// serve runs without one when no API key is configured.
type RangeSummarizer interface {
	SummarizeRange(ctx context.Context, start, end time.Time) (*types.Summary, error)
}

// Server is the HTTP front end.
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	log    *log.Logger
}

// Deps carries the server's collaborators. Summarizer may be nil, in which
// case summary endpoints answer 503.
type Deps struct {
	Config     *config.Config
	Engine     *discovery.Engine
	Entries    *entry.Manager
	Calendar   *calendar.Service
	Store      storage.Store
	Summarizer RangeSummarizer
	Logger     *log.Logger
}

// New builds the server and registers all routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	h := &handler{
		cfg:        deps.Config,
		engine:     deps.Engine,
		entries:    deps.Entries,
		calendar:   deps.Calendar,
		store:      deps.Store,
		summarizer: deps.Summarizer,
		tasks:      newTaskRegistry(),
		log:        deps.Logger,
	}
	api := router.Group("/api")
	h.registerRoutes(api)

	return &Server{router: router, cfg: deps.Config, log: deps.Logger}
}

// Run serves until the listener fails or the process exits.
func (s *Server) Run() error {
	s.log.Printf("server: listening on %s", s.cfg.ListenAddr)
	return s.router.Run(s.cfg.ListenAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
