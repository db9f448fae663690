package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaki95/hls-asset-manager/config"
	"github.com/jaki95/hls-asset-manager/internal/catalog"
	"github.com/jaki95/hls-asset-manager/internal/progress"
	"github.com/jaki95/hls-asset-manager/internal/state"
	"github.com/jaki95/hls-asset-manager/internal/storage"
)

// Server exposes the asset catalog and download states to the host
// application over HTTP
type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	catalog   *catalog.Manager
	store     state.Store
	downloads *catalog.Downloads
	notifier  *progress.Notifier
	gatherer  prometheus.Gatherer
}

// Options carries the collaborators a Server is built from. Storage and
// Gatherer may be nil.
type Options struct {
	Catalog  *catalog.Manager
	Store    state.Store
	Notifier *progress.Notifier
	Storage  storage.Storage
	Gatherer prometheus.Gatherer
}

// New creates a new HTTP server instance
func New(cfg *config.Config, opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	notifier := opts.Notifier
	if notifier == nil {
		notifier = progress.NewNotifier()
	}

	s := &Server{
		cfg:       cfg,
		router:    router,
		catalog:   opts.Catalog,
		store:     opts.Store,
		downloads: catalog.NewDownloads(opts.Catalog, opts.Store, opts.Storage),
		notifier:  notifier,
		gatherer:  opts.Gatherer,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.router.GET("/health", s.healthCheck)

	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api/v1")
	{
		api.GET("/assets", s.listAssets)
		api.GET("/assets/:name", s.getAsset)
		api.PUT("/assets/:name/state", s.updateState)
		api.DELETE("/assets/:name/state", s.resetState)
	}
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "hls-asset-manager",
		"assets":    s.catalog.Len(),
	})
}
