package ui

import (
	"context"
	"net/http"
	"time"

	"adspend/app"
	"adspend/internal"
	"adspend/internal/cache"

	"github.com/gin-gonic/gin"
)

// Server serves the dashboard API
type Server struct {
	router          *gin.Engine
	service         *app.DashboardService
	cache           *cache.DatasetCache
	logger          *internal.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server with routes and middleware installed.
// datasetCache may be nil, in which case the reload endpoint only rebuilds.
func NewServer(service *app.DashboardService, datasetCache *cache.DatasetCache, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		router:          router,
		service:         service,
		cache:           datasetCache,
		logger:          logger,
		shutdownTimeout: 10 * time.Second,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// SetShutdownTimeout bounds how long Start waits for in-flight requests on cancel
func (s *Server) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		s.shutdownTimeout = d
	}
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/columns", s.handleColumns)
		api.GET("/options", s.handleOptions)
		api.GET("/dashboard", s.handleDashboard)
		api.POST("/reload", s.handleReload)
	}
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[Server] Shutting down (timeout %s)", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
