// Package server exposes the anonymizer over HTTP: a JSON redaction
// endpoint, a pattern listing, and a WebSocket event stream.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/catalog"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/config"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/entities"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/logger"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/websocket"
)

// Server is the anonymization HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	catalog    *catalog.Catalog
	redactor   *redact.Redactor
	entities   *entities.Client // optional
	router     *mux.Router
	server     *http.Server
	wsHub      *websocket.Hub
	limiter    *rateLimiter
	started    time.Time
	stopStatus chan struct{}

	totalRequests   int64
	totalRedactions int64
}

// New creates a new server instance. The entity client may be nil, in which
// case requests asking for the entity pass get an error.
func New(cfg *config.Config, cat *catalog.Catalog, redactor *redact.Redactor, entityClient *entities.Client, log *logger.Logger) *Server {
	hubConfig := &websocket.HubConfig{
		BroadcastRedactions:  cfg.WebSocket.Events.BroadcastRedactions,
		BroadcastSystem:      cfg.WebSocket.Events.BroadcastSystem,
		BroadcastConnections: cfg.WebSocket.Events.BroadcastConnections,
	}
	wsHub := websocket.NewHub(hubConfig, log.WithComponent("websocket").Logger)

	s := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		catalog:    cat,
		redactor:   redactor,
		entities:   entityClient,
		router:     mux.NewRouter(),
		wsHub:      wsHub,
		limiter:    newRateLimiter(&cfg.Server.RateLimit),
		stopStatus: make(chan struct{}),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	if s.config.WebSocket.Enabled {
		path := s.config.WebSocket.Path
		if path == "" {
			path = "/ws"
		}
		s.router.HandleFunc(path, s.handleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/patterns", s.handlePatterns).Methods("GET")
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and the WebSocket hub
func (s *Server) Start() error {
	s.started = time.Now()

	s.logger.Info("Starting anonymization server",
		zap.Int("port", s.config.Server.Port),
		zap.Int("patterns", s.catalog.Len()),
		zap.Bool("entities", s.entities != nil),
		zap.Bool("websocket", s.config.WebSocket.Enabled),
	)

	go s.wsHub.Run()
	go s.broadcastStatusLoop()
	s.limiter.startCleanup()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping anonymization server")
	close(s.stopStatus)
	return s.server.Shutdown(ctx)
}

// broadcastStatusLoop pushes a system status event to the hub twice a minute.
func (s *Server) broadcastStatusLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopStatus:
			return
		case <-ticker.C:
			s.wsHub.BroadcastEvent(websocket.Event{
				Type:      websocket.EventTypeSystemStatus,
				Timestamp: time.Now(),
				Data: websocket.SystemStatusEvent{
					Status:           "healthy",
					Uptime:           time.Since(s.started).String(),
					TotalRequests:    atomic.LoadInt64(&s.totalRequests),
					TotalRedactions:  atomic.LoadInt64(&s.totalRedactions),
					ActivePatterns:   s.catalog.Len(),
					ConnectedClients: s.wsHub.ClientCount(),
				},
			})
		}
	}
}

// handleWebSocket hands the connection to the hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// GetWebSocketHub returns the hub for broadcasting events
func (s *Server) GetWebSocketHub() *websocket.Hub {
	return s.wsHub
}

func (s *Server) countRequest() { atomic.AddInt64(&s.totalRequests, 1) }

func (s *Server) countRedactions(n int) {
	if n > 0 {
		atomic.AddInt64(&s.totalRedactions, int64(n))
	}
}
