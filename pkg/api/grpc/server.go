package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/taskorch/taskorch/internal/application/orchestrator"
	"github.com/taskorch/taskorch/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Server exposes the standard gRPC health service, reporting the
// orchestrator's system status so infrastructure probes can act on it.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	orchestrator *orchestrator.Manager
	logger       *zap.Logger
	port         int
	cancel       context.CancelFunc
}

// Config holds gRPC server configuration.
type Config struct {
	Port         int
	Orchestrator *orchestrator.Manager
	Logger       *zap.Logger
}

// NewServer creates a new gRPC server.
func NewServer(cfg *Config) *Server {
	return &Server{
		grpcServer:   grpc.NewServer(),
		healthServer: health.NewServer(),
		orchestrator: cfg.Orchestrator,
		logger:       cfg.Logger,
		port:         cfg.Port,
	}
}

// Start starts the gRPC server and the status refresh loop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.healthServer)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.refreshStatus(ctx)

	s.logger.Info("starting gRPC server", zap.Int("port", s.port))
	return s.grpcServer.Serve(listener)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Info("stopping gRPC server")
	s.grpcServer.GracefulStop()
}

// refreshStatus keeps the health service in sync with the
// orchestrator's system status. A critical system reports NOT_SERVING.
func (s *Server) refreshStatus(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	for {
		select {
		case <-ctx.Done():
			s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			return
		case <-ticker.C:
			status := s.orchestrator.SystemStatus()
			if status.Health == domain.SystemCritical {
				s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			} else {
				s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
			}
		}
	}
}
