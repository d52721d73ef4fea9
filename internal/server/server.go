// Package server provides the HTTP API for smartdata.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/smartdata/internal/config"
	"github.com/hyperjump/smartdata/internal/crawler"
	"github.com/hyperjump/smartdata/internal/mapping"
	"github.com/hyperjump/smartdata/internal/organize"
	"github.com/hyperjump/smartdata/internal/storage"
	"go.uber.org/zap"
)

// CrawlerService runs and stops the external crawler.
type CrawlerService interface {
	Run(ctx context.Context, urls []string, description string) ([]crawler.RunResult, error)
	Stop() bool
	Running() bool
}

// ChatService answers chat messages.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Deps are the components the handlers use. Chat may be nil, in which case
// the chat endpoint answers 501.
type Deps struct {
	Storage   storage.Storage
	Mappings  *mapping.Store
	Crawler   CrawlerService
	RulesPath string
	Organizer *organize.Organizer
	Chat      ChatService
	// WatchDir holds the crawler's products.json for local recommendations.
	WatchDir string
	// DiskPaths are summed for the status endpoint.
	DiskPaths []string
}

// Server is the HTTP server for the smartdata API.
type Server struct {
	deps   Deps
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		deps:   deps,
		config: cfg,
		logger: logger,
	}
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Crawls run as long as the crawler takes, so they sit outside the request timeout.
	r.Post("/start_spider", s.handleStartSpider)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Post("/recommend", s.handleRecommend)
		r.Post("/local_recommend", s.handleLocalRecommend)
		r.Post("/stop_spider", s.handleStopSpider)
		r.Post("/organize_dumped_info", s.handleOrganize)
		r.Post("/chat", s.handleChat)
		r.Get("/keyword_mappings", s.handleGetMappings)
		r.Post("/update_keyword_mappings", s.handleUpdateMappings)
		r.Post("/update_spider_rules", s.handleUpdateSpiderRules)

		r.Get("/api/v1/records", s.handleListRecords)
		r.Get("/api/v1/records/{id}", s.handleGetRecord)
		r.Post("/api/v1/products", s.handleCreateProduct)
		r.Get("/api/v1/products/{id}", s.handleGetProduct)
		r.Get("/api/v1/status", s.handleStatus)
		r.Get("/health", s.handleHealth)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
