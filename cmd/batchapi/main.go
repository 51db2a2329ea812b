package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/api"
	"github.com/Totarae/BatchConsole/internal/config"
	"github.com/Totarae/BatchConsole/internal/database"
	grpcserver "github.com/Totarae/BatchConsole/internal/grpc/v2"
	"github.com/Totarae/BatchConsole/internal/machine"
	"github.com/Totarae/BatchConsole/internal/repositories"
	"github.com/Totarae/BatchConsole/internal/router"
	"github.com/Totarae/BatchConsole/internal/service"
	"github.com/Totarae/BatchConsole/internal/storage"
)

const healthInterval = 15 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig(logger)
	if err != nil {
		logger.Fatal("Ошибка конфигурации", zap.Error(err))
	}

	store, closeStore, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения хранилища", zap.Error(err))
	}
	defer closeStore()

	var (
		share service.Share
		media http.Handler
	)
	if cfg.MachineSharePath != "" {
		s := machine.NewShare(os.DirFS(cfg.MachineSharePath), logger)
		share = s
		media = http.StripPrefix("/media/", http.FileServer(http.FS(s.FS())))
	} else {
		logger.Warn("MACHINE_SHARE_PATH не задан, сверка со станком отключена")
	}

	svc := service.NewBatchService(store, share, logger, cfg.ImageBaseURL)
	r := router.NewAPIRouter(api.NewHandler(svc, logger), media, logger)

	health := grpcserver.NewHealthServer(svc, logger, healthInterval)
	grpcSrv := grpcserver.NewGRPCServer(health, logger)

	httpSrv := &http.Server{
		Addr:              cfg.APIAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g := &run.Group{}

	// REST API
	g.Add(func() error {
		logger.Info("REST API запущен", zap.String("address", cfg.APIAddress), zap.String("mode", cfg.Mode))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Error("Ошибка остановки REST API", zap.Error(err))
		}
	})

	// gRPC health
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		logger.Fatal("Ошибка открытия gRPC-порта", zap.Error(err))
	}
	g.Add(func() error {
		logger.Info("gRPC запущен", zap.String("address", cfg.GRPCAddress))
		return grpcSrv.Serve(lis)
	}, func(error) {
		grpcSrv.GracefulStop()
	})

	healthCtx, healthCancel := context.WithCancel(context.Background())
	g.Add(func() error {
		return health.Run(healthCtx)
	}, func(error) {
		healthCancel()
	})

	sigCtx, sigCancel := context.WithCancel(context.Background())
	g.Add(func() error {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(c)
		select {
		case sig := <-c:
			return fmt.Errorf("получен сигнал %s", sig)
		case <-sigCtx.Done():
			return nil
		}
	}, func(error) {
		sigCancel()
	})

	if err := g.Run(); err != nil {
		logger.Info("Бэкенд остановлен", zap.String("reason", err.Error()))
	}
}

// openStorage выбирает хранилище по режиму конфигурации.
func openStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewBatchRepository(db), db.Close, nil
	default:
		path := cfg.FileStoragePath
		if cfg.Mode == config.ModeMemory {
			path = ""
		}
		store, err := storage.NewFileStore(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
