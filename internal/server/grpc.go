package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/alfredjeanlab/tracker/internal/api"
)

// NewGRPCServer creates a gRPC server with standard interceptors, registers
// the TrackerService, the health service and reflection, and returns the
// server ready to serve.
func NewGRPCServer(ts *TrackerServer) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
			AuthInterceptor(ts.authn),
		),
	)

	api.RegisterTrackerServiceServer(srv, ts)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)

	return srv
}
