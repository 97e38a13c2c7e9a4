package gameserver

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/rpgproject/internal/gameserver/rpgv1"
)

// NewGRPCServer builds a gRPC server serving svc and the standard health
// service. Both the overall and the CharacterService health are SERVING.
func NewGRPCServer(svc rpgv1.CharacterServiceServer, logger *zap.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	rpgv1.RegisterCharacterServiceServer(srv, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpgv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv, hs
}
