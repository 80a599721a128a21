// Package server wires the kniffel HTTP API, gRPC health endpoint and game
// store into one process.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/kniffel/internal/platform/random"
	"github.com/louisbranch/kniffel/internal/platform/timeouts"
	httpapi "github.com/louisbranch/kniffel/internal/services/kniffel/api/http"
	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/service"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const healthServiceName = "kniffel.v1.GameService"

// Config defines the inputs for the kniffel server.
type Config struct {
	HTTPAddr          string
	GRPCAddr          string
	Storage           string
	DBPath            string
	Seed              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the game HTTP API next to a gRPC health endpoint.
type Server struct {
	httpListener    net.Listener
	grpcListener    net.Listener
	httpServer      *http.Server
	grpcServer      *grpc.Server
	health          *health.Server
	store           storage.GameStore
	shutdownTimeout time.Duration
}

// New opens the store and binds both listeners.
func New(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	grpcAddr := strings.TrimSpace(cfg.GRPCAddr)
	if grpcAddr == "" {
		return nil, errors.New("grpc address is required")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = timeouts.Shutdown
	}

	seed, fixed, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}
	if fixed {
		log.Printf("kniffel dice seeded with %d", seed)
	}

	store, err := OpenStore(cfg.Storage, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
	}

	svc := service.NewService(store, dice.NewSeeded(seed))
	httpServer := &http.Server{
		Handler:           httpapi.NewHandler(svc),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener:    httpListener,
		grpcListener:    grpcListener,
		httpServer:      httpServer,
		grpcServer:      grpcServer,
		health:          healthServer,
		store:           store,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// HTTPAddr returns the bound HTTP listener address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound gRPC listener address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Run creates and serves a kniffel server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return fmt.Errorf("init kniffel server: %w", err)
	}
	return server.Serve(ctx)
}

// Serve runs both servers until ctx ends or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	httpErr := make(chan error, 1)
	grpcErr := make(chan error, 1)
	log.Printf("kniffel HTTP listening at %v", s.httpListener.Addr())
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()
	log.Printf("kniffel gRPC health listening at %v", s.grpcListener.Addr())
	go func() {
		grpcErr <- s.grpcServer.Serve(s.grpcListener)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve http: %w", err)
		}
	case err := <-grpcErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr = fmt.Errorf("serve gRPC: %w", err)
		}
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("shutdown http server: %w", err)
	}
	s.grpcServer.GracefulStop()
	return serveErr
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close kniffel store: %v", err)
		}
		s.store = nil
	}
}
