// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/itsatony/irrigador/api"
	"github.com/itsatony/irrigador/api/middleware"
	"github.com/itsatony/irrigador/internal/config"
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	backend    *Backend
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		srv:        srv,
		monitoring: monitoring.NewService(),
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := BuildBackend(ctx, s.config)
	cancel()
	if err != nil {
		return fmt.Errorf("error initializing backend: %w", err)
	}
	s.backend = backend
	defer s.backend.Close()

	if err := s.setupEventHandlers(); err != nil {
		return err
	}
	s.srv.Handler = s.Handler()

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// Handler builds the router and wraps it with CORS, access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	router := api.NewRouter(s.backend.Service, s.monitoring,
		middleware.NewTokenMiddleware(s.backend.Tokens, s.config.Auth.Required))

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(
		handlers.LoggingHandler(os.Stdout, cors(router)),
	)
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupEventHandlers() error {
	return WireMonitoring(s.backend.Service, s.monitoring)
}

// WireMonitoring forwards service events to the monitoring service
func WireMonitoring(svc *service.Service, mon *monitoring.Service) error {
	forward := map[string]func(id string){
		service.EventSnapshotServed: func(id string) {
			mon.RecordEvent("snapshot_served", map[string]string{"device_id": id})
		},
		service.EventSnapshotMissing: func(id string) {
			nuts.L.Infof("[Snapshot] No snapshot stored for device %s", id)
			mon.RecordEvent("snapshot_missing", map[string]string{"device_id": id})
		},
		service.EventSnapshotFailed: func(id string) {
			nuts.L.Warnf("[Snapshot] Backend failure for device %s", id)
			mon.RecordEvent("snapshot_failed", map[string]string{"device_id": id})
		},
	}

	for event, handler := range forward {
		if err := svc.OnEvent(event, handler); err != nil {
			return fmt.Errorf("error wiring %s to monitoring: %w", event, err)
		}
	}
	return nil
}
