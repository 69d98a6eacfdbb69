package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/WillyAmmm/Quote-Logger/internal/api/http"
	"github.com/WillyAmmm/Quote-Logger/internal/api/middleware"
	"github.com/WillyAmmm/Quote-Logger/internal/config"
	"github.com/WillyAmmm/Quote-Logger/internal/extract"
	"github.com/WillyAmmm/Quote-Logger/internal/monitoring"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
	"github.com/WillyAmmm/Quote-Logger/internal/store"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a server instance from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := monitoring.NewMetrics()
	client := sink.NewClient(sink.Config{
		URL:      cfg.Sink.URL,
		Timeout:  cfg.Sink.Timeout,
		RetryMax: cfg.Sink.RetryMax,
	}, logger)
	st := store.New(client, cfg.Sink.BulkLimit, logger)
	searcher := store.NewSearcher(st, cfg.Search.Debounce(), cfg.Search.TopN, cfg.Search.Window())
	agg := extract.NewAggregator(logger)

	handlers := apihttp.NewHandlers(cfg, logger, metrics, agg, client, st, searcher)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Capture pipeline
	router.POST("/capture", handlers.Capture)

	// Recent loads
	router.GET("/recent", handlers.Recent)
	router.POST("/save", handlers.Save)

	// Search engine
	router.POST("/search", handlers.Search)
	router.GET("/options", handlers.Options)
	router.POST("/refresh", handlers.Refresh)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.http.Shutdown(ctx)
}
