package server

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/oggyb/matcha/internal/config"
)

// NewGRPCServer builds a gRPC server with the recovery, request-logging and
// metrics interceptors and registers all provided services.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(log),
			LoggingInterceptor(log),
			MetricsInterceptor(),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}
	return grpcServer
}

// StartGRPCServer listens on the configured address and serves until the
// server is stopped.
func StartGRPCServer(cfg *config.Config, grpcServer *grpc.Server) error {
	addr := cfg.GRPCAddr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return grpcServer.Serve(lis)
}
