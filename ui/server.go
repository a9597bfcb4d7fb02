package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"msmeinsights/adapters/excel"
	"msmeinsights/internal/config"
	"msmeinsights/internal/errors"
	"msmeinsights/internal/logging"
	"msmeinsights/ports"
)

// Server represents the web server for the insights dashboard
type Server struct {
	router    *gin.Engine
	http      *http.Server
	builder   ports.ReportBuilderPort
	tables    ports.TableReloaderPort
	cfg       *config.Config
	templates *template.Template
	exporter  *excel.Exporter
	logger    *zap.Logger
}

// NewServer creates a new web server instance with routes registered
func NewServer(builder ports.ReportBuilderPort, tables ports.TableReloaderPort, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:    gin.New(),
		builder:   builder,
		tables:    tables,
		cfg:       cfg,
		templates: tmpl,
		exporter:  excel.NewExporter(),
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(logging.GinMiddleware(s.logger))
	if s.cfg.Metrics.Enabled {
		s.router.Use(requestMetrics())
	}
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.GET("/charts/traffic.svg", s.handleTrafficChart)
	s.router.GET("/charts/accuracy.svg", s.handleAccuracyChart)

	api := s.router.Group("/api")
	api.GET("/report", s.handleReport)
	api.GET("/export.xlsx", s.handleExport)
	api.POST("/reload", s.handleReload)

	if s.cfg.Metrics.Enabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.cfg.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting insights dashboard", zap.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down insights dashboard")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}
	return nil
}
