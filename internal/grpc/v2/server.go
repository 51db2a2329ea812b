package v2

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// BatchesService имя сервиса в протоколе grpc.health.v1.
const BatchesService = "batchapi.Batches"

// Checker проверка доступности хранилища.
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthServer публикует состояние хранилища по grpc.health.v1.
type HealthServer struct {
	*health.Server
	Checker  Checker
	Logger   *zap.Logger
	Interval time.Duration
}

func NewHealthServer(checker Checker, logger *zap.Logger, interval time.Duration) *HealthServer {
	return &HealthServer{
		Server:   health.NewServer(),
		Checker:  checker,
		Logger:   logger,
		Interval: interval,
	}
}

// Refresh проверяет хранилище один раз и обновляет статус.
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.Checker.Ping(ctx); err != nil {
		s.Logger.Warn("storage ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.SetServingStatus("", status)
	s.SetServingStatus(BatchesService, status)
	return status
}

// Run обновляет статус каждые Interval до отмены ctx.
func (s *HealthServer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// NewGRPCServer создаёт gRPC-сервер с зарегистрированным health-сервисом.
func NewGRPCServer(hs *HealthServer, logger *zap.Logger) *grpc.Server {
	srv := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return resp, err
	}
}
